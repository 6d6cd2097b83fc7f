// Path composition for DRM and link files.
//
// Every DRM and link path is composed from a branch root, a fixed
// reserved metadata directory, the logical filesystem path, and a fixed
// tag suffix.
package cowolf

import "path"

const (
	// MetaDir is the fixed, reserved metadata directory name under each
	// branch root that shadows the real filesystem tree.
	MetaDir = ".cowolf"

	// DRMapTag suffixes a logical path to form its DRM file's path.
	DRMapTag = ".drm"

	// LinkTag suffixes a logical path to form its auxiliary symlink's
	// path (the symlink that tracks the file's original lower-branch
	// name across renames).
	LinkTag = ".lnk"

	// PathLenMax bounds any composed DRM or link path. Exceeding it is
	// a name-too-long error, not a panic or truncation.
	PathLenMax = 4096
)

// drmPath composes the DRM file path for logical path p on the branch
// rooted at branchPath: branchPath/MetaDir/p+DRMapTag.
func drmPath(branchPath, p string) (string, error) {
	return composeMetaPath(branchPath, p, DRMapTag)
}

// linkPath composes the auxiliary symlink path for logical path p on the
// branch rooted at branchPath: branchPath/MetaDir/p+LinkTag.
func linkPath(branchPath, p string) (string, error) {
	return composeMetaPath(branchPath, p, LinkTag)
}

func composeMetaPath(branchPath, p, tag string) (string, error) {
	full := path.Join(branchPath, MetaDir, p+tag)
	if len(full) > PathLenMax {
		return "", ErrNameTooLong
	}
	return full, nil
}

// joinBranch composes a plain (non-metadata) absolute path for a logical
// path p rooted at branchPath, used to recover the lower-branch file's
// real location from the auxiliary link's target.
func joinBranch(branchPath, p string) (string, error) {
	full := path.Join(branchPath, p)
	if len(full) > PathLenMax {
		return "", ErrNameTooLong
	}
	return full, nil
}
