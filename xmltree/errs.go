package xmltree

import (
	"errors"
	"fmt"
)

// ErrStructure reports an insertion that would corrupt the tree, such as
// giving a node two parents or inserting an ancestor below its own
// descendant. It is a programmer or script error, never recovered.
var ErrStructure = errors.New("structural violation")

func structuralf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructure, fmt.Sprintf(format, args...))
}
