package ports

import (
	"context"
	"time"
)

// AppEntry is one installed application as reported by the app index.
type AppEntry struct {
	ID         string
	Name       string
	Path       string
	Icon       string
	UsageCount uint64
}

// AppSource is the narrow query capability over the installed-app index.
type AppSource interface {
	Search(ctx context.Context, text string) ([]AppEntry, error)
}

// FileEntry is one indexed file.
type FileEntry struct {
	ID        string
	Filename  string
	Path      string
	Extension string
	Size      int64
}

// FileIndex is the narrow query capability over the file index.
type FileIndex interface {
	Search(ctx context.Context, text string, limit int) ([]FileEntry, error)
}

// Browser entry types.
const (
	BrowserEntryBookmark = "bookmark"
	BrowserEntryHistory  = "history"
)

// BrowserEntry is one bookmark or history row from a browser profile.
type BrowserEntry struct {
	ID        string
	Title     string
	URL       string
	Browser   string
	EntryType string
	Favicon   string
}

// BrowserIndex is the narrow query capability over cached browser data.
type BrowserIndex interface {
	Search(ctx context.Context, text string, limit int) ([]BrowserEntry, error)
}

// ClipboardEntry is one captured clipboard item.
type ClipboardEntry struct {
	ID        string
	Content   string
	Timestamp time.Time
	Sensitive bool
}

// ClipboardHistory is the narrow query capability over clipboard history.
type ClipboardHistory interface {
	Search(ctx context.Context, text string, limit int) ([]ClipboardEntry, error)
}
