package port

// DatasetFinder resolves dataset arguments to file paths.
type DatasetFinder interface {
	Find(root string, patterns []string) ([]string, error)
}
