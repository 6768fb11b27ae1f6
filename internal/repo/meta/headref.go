package meta

import (
	"fmt"
	"strings"
)

type HeadRef string

func (h HeadRef) String() string { return string(h) }

const headPrefix = "ref: "

// GetHeadRef reads HEAD for this repository.
func (mc *MetaContext) GetHeadRef() (HeadRef, error) {
	data, err := mc.FS.ReadFile(mc.Config.HeadFile())
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD %q: %w", mc.Config.HeadFile(), err)
	}

	content := strings.TrimSpace(string(data))
	if !strings.HasPrefix(content, headPrefix) {
		return "", fmt.Errorf("invalid HEAD content: %q", content)
	}
	return HeadRef(content[len(headPrefix):]), nil
}

// SetHeadRef points HEAD at the given branch. Accepts "branches/<name>" or "<name>".
func (mc *MetaContext) SetHeadRef(branch string) (HeadRef, error) {
	refVal := branch
	if !strings.HasPrefix(branch, "branches/") {
		refVal = "branches/" + branch
	}
	if err := mc.FS.WriteFile(mc.Config.HeadFile(), []byte(headPrefix+refVal), 0o644); err != nil {
		return "", fmt.Errorf("failed to write HEAD %q: %w", mc.Config.HeadFile(), err)
	}
	return HeadRef(refVal), nil
}
