package domain

// WorkspaceSpec describes a directory prepared by `casg init`.
type WorkspaceSpec struct {
	Root string
}
