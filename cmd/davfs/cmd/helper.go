package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/xxxsen/davfs/entry"
	"github.com/xxxsen/davfs/fserr"
)

// openEntry finds p below base, trying a file first unless p ends with "/".
func openEntry(ctx context.Context, base *entry.DirectoryEntry, p string) (entry.IEntry, error) {
	if len(p) == 0 || strings.HasSuffix(p, "/") {
		return base.GetDirectory(ctx, p, nil)
	}
	f, err := base.GetFile(ctx, p, nil)
	if err == nil {
		return f, nil
	}
	if !fserr.Is(err, fserr.KindTypeMismatch) {
		return nil, err
	}
	return base.GetDirectory(ctx, p, nil)
}

func openDirectory(ctx context.Context, base *entry.DirectoryEntry, args []string) (*entry.DirectoryEntry, error) {
	if len(args) == 0 {
		return base, nil
	}
	return base.GetDirectory(ctx, args[0], nil)
}

func formatEntry(ent entry.IEntry) string {
	kind := "-"
	name := ent.Name()
	if ent.IsDirectory() {
		kind = "d"
		name += "/"
	}
	md, err := ent.GetMetadata()
	if err != nil {
		return fmt.Sprintf("%s %10s %-16s %s", kind, "-", "-", name)
	}
	mtime := "-"
	if !md.ModificationTime.IsZero() {
		mtime = humanize.Time(md.ModificationTime)
	}
	return fmt.Sprintf("%s %10s %-16s %s", kind, humanize.IBytes(uint64(md.Size)), mtime, name)
}

func printEntries(w io.Writer, ents []entry.IEntry) {
	for _, ent := range ents {
		fmt.Fprintln(w, formatEntry(ent))
	}
}
