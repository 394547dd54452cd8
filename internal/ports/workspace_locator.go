package ports

// WorkspaceLocator finds the workspace root starting from a directory.
type WorkspaceLocator interface {
	FindRoot(startDir string) (string, error)
}
