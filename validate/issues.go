package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeInvalidType = "invalid_type"
	CodeRequired    = "required"
	CodeTooSmall    = "too_small"
	CodeTooBig      = "too_big"
	CodeTooShort    = "too_short"
	CodeTooLong     = "too_long"
	CodePattern     = "pattern"
	CodeInvalidEnum = "invalid_enum"
	CodeBadTag      = "bad_tag"
	CodeBadShape    = "bad_shape"
	CodeBadDatatype = "bad_datatype"
	CodeCheckFailed = "check_failed"
	CodeNoBranch    = "no_branch"
)

// Issue is a single validation finding against one location in the tree.
type Issue struct {
	// Path locates the offending value, dotted form with [i] indexing.
	Path    string
	Code    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Code, i.Message)
	}
	return fmt.Sprintf("%s at %s: %s", i.Code, i.Path, i.Message)
}

// Issues is a collection of validation findings. It implements error; a nil
// or empty Issues means the instance validated cleanly.
type Issues []Issue

func (iss Issues) Error() string {
	const maxShown = 3
	if len(iss) == 0 {
		return ""
	}
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].String())
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (%d total)", len(iss))
	}
	return b.String()
}

// OrNil returns the collection as an error, nil when empty.
func (iss Issues) OrNil() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// AsIssues extracts Issues from err via errors.As.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
