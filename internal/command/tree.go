package command

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCommand is returned when args name no registered command.
var ErrUnknownCommand = errors.New("unknown command")

// Node is one command in the tree. Aliases share the node of their command.
type Node struct {
	Cmd         Command
	Subcommands map[string]*Node
	primary     []string
}

// CommandTree manages all commands and subcommands.
type CommandTree struct {
	root *Node
}

// NewTree creates a new empty command tree.
func NewTree() *CommandTree {
	return &CommandTree{root: newNode(nil)}
}

func newNode(cmd Command) *Node {
	return &Node{Cmd: cmd, Subcommands: make(map[string]*Node)}
}

// Register inserts a command and all its subcommands recursively.
// Registering a name twice replaces the earlier command.
func (t *CommandTree) Register(cmd Command) {
	t.insert(t.root, cmd)
}

func (t *CommandTree) insert(parent *Node, cmd Command) {
	node := newNode(cmd)
	for _, sub := range cmd.Subcommands() {
		t.insert(node, sub)
	}

	if _, ok := parent.Subcommands[cmd.Name()]; !ok {
		parent.primary = append(parent.primary, cmd.Name())
		sort.Strings(parent.primary)
	}
	parent.Subcommands[cmd.Name()] = node
	for _, alias := range cmd.Aliases() {
		parent.Subcommands[alias] = node
	}
}

// Get returns a top-level command by name or alias.
func (t *CommandTree) Get(name string) (Command, bool) {
	node, ok := t.root.Subcommands[name]
	if !ok {
		return nil, false
	}
	return node.Cmd, true
}

// Commands returns the top-level commands sorted by name, aliases excluded.
func (t *CommandTree) Commands() []Command {
	cmds := make([]Command, 0, len(t.root.primary))
	for _, name := range t.root.primary {
		cmds = append(cmds, t.root.Subcommands[name].Cmd)
	}
	return cmds
}

// Resolve follows args down the tree as far as they name subcommands and
// returns the deepest node with the arguments left over.
func (t *CommandTree) Resolve(args []string) (*Node, []string, error) {
	node := t.root
	for len(args) > 0 {
		next, ok := node.Subcommands[args[0]]
		if !ok {
			break
		}
		node = next
		args = args[1:]
	}
	if node.Cmd == nil {
		if len(args) > 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
		}
		return nil, nil, ErrUnknownCommand
	}
	return node, args, nil
}
