// Package gitpath contains consts and methods to work with paths inside
// the repository metadata directory.
package gitpath

// Metadata-directory layout. Trimmed to what spec.md §6 actually names:
// no packed-refs, tags, remotes, or packfile info/pack paths -- those
// are non-goals (reflog, remotes, packfiles).
const (
	DotGitPath = ".git"
	ConfigPath = "config"
	HEADPath   = "HEAD"
	IndexPath  = "index"

	ObjectsPath = "objects"

	RefsPath      = "refs"
	RefsHeadsPath = RefsPath + "/heads"
)
