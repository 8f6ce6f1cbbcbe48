package entry

import (
	"context"
	"errors"
)

// SkipDir returned by a WalkFunc on a directory skips its children.
var SkipDir = errors.New("skip this directory")

type WalkFunc func(ctx context.Context, ent IEntry) error

// Walk visits every entry below dir depth first, dir itself excluded.
func Walk(ctx context.Context, dir *DirectoryEntry, fn WalkFunc) error {
	ents, err := dir.CreateReader().ReadEntries(ctx)
	if err != nil {
		return err
	}
	for _, ent := range ents {
		err := fn(ctx, ent)
		if errors.Is(err, SkipDir) {
			continue
		}
		if err != nil {
			return err
		}
		sub, ok := ent.(*DirectoryEntry)
		if !ok {
			continue
		}
		if err := Walk(ctx, sub, fn); err != nil {
			return err
		}
	}
	return nil
}
