// Package ledger implements the UTXO ledger kept in the data/ subtree of a
// repository: building signed transfers and validating history by replay.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/keshon/vbits/internal/config"
	"github.com/keshon/vbits/internal/identity"
	"github.com/keshon/vbits/internal/repo"
	"github.com/keshon/vbits/internal/repo/store/tree"
)

// Store is the versioned tree store the ledger runs on.
// *repo.Repository satisfies it.
type Store interface {
	Tip(ref string) (repo.Revision, error)
	Parent(rev repo.Revision) (repo.Revision, error)
	Branch(name, from string) (repo.Revision, error)
	Commit(ref, expected string, t *tree.Tree, message string) (string, error)
	Integrate(from, into, base string) error
	DeleteBranch(name string) error
	History(ref string) iter.Seq2[repo.Revision, error]
}

// Engine publishes and validates transactions on one branch.
type Engine struct {
	store  Store
	branch string
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithBranch selects the shared branch (default "main").
func WithBranch(name string) Option { return func(e *Engine) { e.branch = name } }

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// NewEngine returns an engine over store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{store: store, branch: config.DefaultBranch, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Receipt describes a published transaction.
type Receipt struct {
	CommitID string
	Plan     *Plan
	Record   Record
}

// Balance sums the unspent records of addr at the tip of the branch.
func (e *Engine) Balance(addr identity.Address) (uint64, error) {
	tip, err := e.store.Tip(e.branch)
	if err != nil {
		return 0, err
	}
	inputs, err := Spendable(tip.Tree, addr)
	if err != nil {
		return 0, err
	}
	return Sum(inputs)
}

// Send builds, signs and publishes one transfer from signer to to.
// The transaction is committed on a private staging branch and then
// fast-forwarded onto the shared branch; if the shared branch moved in the
// meantime nothing is published and an error matching ErrConflict is returned.
func (e *Engine) Send(ctx context.Context, signer identity.Signer, to identity.Address, amount uint64, mint bool) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	staging := config.StagingPrefix + uuid.NewString()
	base, err := e.store.Branch(staging, e.branch)
	if err != nil {
		return nil, fmt.Errorf("create staging branch: %w", err)
	}
	defer func() {
		if err := e.store.DeleteBranch(staging); err != nil {
			e.logger.Warn("failed to delete staging branch", "branch", staging, "err", err)
		}
	}()

	plan, err := BuildPlan(base.Tree, signer.Address(), to, amount, mint)
	if err != nil {
		return nil, err
	}
	rec := plan.Record(signer)
	next, err := plan.Apply(base.Tree, rec)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("built transaction", "txid", plan.TxID, "inputs", len(plan.Inputs), "change", plan.Change)

	commitID, err := e.store.Commit(staging, base.CommitID, next, plan.Message(rec))
	if err != nil {
		return nil, fmt.Errorf("commit on %s: %w", staging, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.store.Integrate(staging, e.branch, base.CommitID); err != nil {
		return nil, fmt.Errorf("integrate into %s: %w", e.branch, err)
	}

	e.logger.Info("published transaction", "txid", plan.TxID, "commit", commitID)
	return &Receipt{CommitID: commitID, Plan: plan, Record: rec}, nil
}

// SendWithRetry repeats Send while it fails with ErrConflict, rebuilding the
// transaction from the new tip each time, at most retries extra times.
func (e *Engine) SendWithRetry(ctx context.Context, signer identity.Signer, to identity.Address, amount uint64, mint bool, retries int) (*Receipt, error) {
	for attempt := 0; ; attempt++ {
		r, err := e.Send(ctx, signer, to, amount, mint)
		if err == nil || !errors.Is(err, ErrConflict) || attempt >= retries {
			return r, err
		}
		e.logger.Warn("branch moved, retrying", "attempt", attempt+1, "err", err)
	}
}

// ValidateHistory validates every commit of the branch, oldest first.
// Invalid commits are reported in their Outcome and do not stop the walk;
// the returned error is only set when the history itself cannot be read.
func (e *Engine) ValidateHistory() ([]Outcome, error) {
	var revs []repo.Revision
	for rev, err := range e.store.History(e.branch) {
		if err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	slices.Reverse(revs)

	outcomes := make([]Outcome, 0, len(revs))
	for i, rev := range revs {
		var parent repo.Revision
		if i > 0 && revs[i-1].CommitID == rev.Parent {
			parent = revs[i-1]
		} else {
			p, err := e.store.Parent(rev)
			if err != nil {
				return nil, err
			}
			parent = p
		}

		o := Outcome{CommitID: rev.CommitID, Message: rev.Message}
		o.Transition, o.Err = Validate(parent.Tree, rev.Tree)
		var ve *ValidationError
		if errors.As(o.Err, &ve) {
			ve.Commit = rev.CommitID
		}
		if o.Err != nil {
			e.logger.Debug("invalid commit", "commit", rev.CommitID, "err", o.Err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}
