package storage

import "fmt"

// NameClashPolicy decides what RenameFiles does when the target name is taken.
type NameClashPolicy string

const (
	// ClashDoNothing leaves the source file in place when the target exists.
	ClashDoNothing NameClashPolicy = "do_nothing"
	// ClashReplaceExisting overwrites the existing target.
	ClashReplaceExisting NameClashPolicy = "replace_existing"
	// ClashRenameUniquely adds a unique suffix to the target name.
	ClashRenameUniquely NameClashPolicy = "rename_uniquely"
)

func (p NameClashPolicy) IsValid() bool {
	switch p {
	case ClashDoNothing, ClashReplaceExisting, ClashRenameUniquely:
		return true
	}
	return false
}

// ParseNameClashPolicy parses s, defaulting to ClashDoNothing when s is empty.
func ParseNameClashPolicy(s string) (NameClashPolicy, error) {
	if s == "" {
		return ClashDoNothing, nil
	}
	p := NameClashPolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown name clash policy %q", s)
	}
	return p, nil
}

// DuplicateNamePolicy decides how repeated names in one request are handled.
type DuplicateNamePolicy string

const (
	// DuplicateThrow rejects the request.
	DuplicateThrow DuplicateNamePolicy = "throw"
	// DuplicateSkip creates the first file and ignores the repeats.
	DuplicateSkip DuplicateNamePolicy = "skip"
	// DuplicateRename numbers the repeats: name_1.ext, name_2.ext, ...
	DuplicateRename DuplicateNamePolicy = "rename"
)

func (p DuplicateNamePolicy) IsValid() bool {
	switch p {
	case DuplicateThrow, DuplicateSkip, DuplicateRename:
		return true
	}
	return false
}

// ParseDuplicateNamePolicy parses s, defaulting to DuplicateThrow when s is empty.
func ParseDuplicateNamePolicy(s string) (DuplicateNamePolicy, error) {
	if s == "" {
		return DuplicateThrow, nil
	}
	p := DuplicateNamePolicy(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown duplicate name policy %q", s)
	}
	return p, nil
}
