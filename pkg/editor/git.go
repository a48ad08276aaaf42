package editor

import (
	git "github.com/go-git/go-git/v5"
)

const shortHashLen = 7

// Branch names the checked-out branch of the repository holding the
// document. A detached HEAD yields the short commit hash. Documents read
// from stdin or outside any repository yield "".
func (d Document) Branch() string {
	return branchAt(d.Dir())
}

func branchAt(dir string) string {
	if dir == "" {
		return ""
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		// Unborn branch: no commits yet.
		return ""
	}

	if name := head.Name(); name.IsBranch() {
		return name.Short()
	}
	hash := head.Hash().String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return hash
}
