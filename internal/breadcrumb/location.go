// Package breadcrumb implements the location path codec and the
// breadcrumb layout engine used to render a plugin path as a row of
// collapsible segments.
package breadcrumb

import (
	"fmt"
	"strings"
)

// Error kinds returned by PathCodec, in the same sentinel-error idiom
// the vfs package uses.
type baseErr string

func (e baseErr) Error() string { return string(e) }

const (
	ErrInvalidArg baseErr = "invalid argument"
)

func errorf(format string, a ...interface{}) error {
	return fmt.Errorf("breadcrumb: "+format, a...)
}

// connPrefix is the host-reserved root token that routes through the
// connection manager; the codec only recognizes it as a distinct
// leading token when lexing plugin paths, it never interprets it.
const connPrefix = "/@conn:"

// Location is the parsed form of any of the three path syntaxes: a
// plugin path, an edit path, or a history path.
type Location struct {
	PluginShortID   string
	InstanceContext string
	PluginPath      string
	HasInstanceCtx  bool
}

// isFileShortID reports whether shortID addresses the built-in file
// system plugin, whose paths are native drive paths rather than
// slash-separated plugin paths.
func isFileShortID(shortID string) bool {
	return shortID == "" || strings.EqualFold(shortID, "file")
}

// looksLikeDrivePath reports whether text is a native Windows-style
// absolute path (`X:\...` or `X:/...`).
func looksLikeDrivePath(text string) bool {
	if len(text) < 2 || text[1] != ':' {
		return false
	}
	c := text[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// splitPluginPrefix splits "shortId:remainder" into its two halves,
// but only when the colon precedes the first path separator (so a
// drive path like "C:\foo" is never mistaken for a plugin prefix).
func splitPluginPrefix(text string) (prefix, remainder string, ok bool) {
	colon := strings.IndexByte(text, ':')
	if colon < 0 {
		return "", "", false
	}
	if sep := strings.IndexAny(text, `\/`); sep >= 0 && sep < colon {
		return "", "", false
	}
	return text[:colon], text[colon+1:], true
}

// ParseLocation parses any of the three location syntaxes:
//   - a plugin path: `/`-separated, starting with `/`.
//   - an edit path: `shortId:/plugin/path`, optionally
//     `shortId:/<instance-context>|/plugin/path`, or a native drive
//     path for the file plugin.
//   - a history path: `shortId:` followed by either form above.
//
// The distinction between edit and history paths is purely lexical
// (both parse identically here); callers track which syntax they are
// producing via FormatEditPath vs FormatHistoryPath.
func ParseLocation(text string) (Location, error) {
	if text == "" {
		return Location{}, errorf("empty location: %w", ErrInvalidArg)
	}

	if looksLikeDrivePath(text) {
		return Location{PluginShortID: "file", PluginPath: text}, nil
	}

	prefix, remainder, ok := splitPluginPrefix(text)
	if !ok {
		// No recognizable prefix: treat the whole text as a bare
		// plugin path against the file plugin's native syntax.
		return Location{PluginShortID: "file", PluginPath: text}, nil
	}

	if isFileShortID(prefix) {
		return Location{PluginShortID: "file", PluginPath: remainder}, nil
	}

	instanceContext := ""
	hasInstanceCtx := false
	pluginPathPart := remainder
	if bar := strings.IndexByte(remainder, '|'); bar >= 0 {
		instanceContext = strings.TrimSpace(remainder[:bar])
		hasInstanceCtx = true
		pluginPathPart = remainder[bar+1:]
	}

	return Location{
		PluginShortID:   prefix,
		InstanceContext: instanceContext,
		HasInstanceCtx:  hasInstanceCtx,
		PluginPath:      NormalizePluginPath(pluginPathPart),
	}, nil
}

// EmptyPolicy controls what NormalizePluginPath returns for an empty
// or all-separator input.
type EmptyPolicy int

const (
	EmptyAsRoot EmptyPolicy = iota
	EmptyAsEmpty
)

// NormalizePluginPath folds backslashes to `/`, collapses duplicate
// slashes, ensures a leading `/` (unless policy says otherwise), and
// trims a trailing `/` (except on the bare root).
func NormalizePluginPath(path string) string {
	return normalizePluginPath(path, EmptyAsRoot, true, false)
}

func normalizePluginPath(path string, onEmpty EmptyPolicy, ensureLeading, ensureTrailing bool) string {
	folded := strings.ReplaceAll(path, `\`, "/")

	parts := strings.Split(folded, "/")
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}

	if len(kept) == 0 {
		if onEmpty == EmptyAsRoot {
			return "/"
		}
		return ""
	}

	var b strings.Builder
	if ensureLeading {
		b.WriteByte('/')
	}
	b.WriteString(strings.Join(kept, "/"))
	if ensureTrailing {
		b.WriteByte('/')
	}
	return b.String()
}

// FormatEditPath composes the editable form: `shortId:/plugin/path`,
// or the bare plugin path for the file plugin (which is already a
// native drive path).
func FormatEditPath(shortID, pluginPath string) string {
	if isFileShortID(shortID) {
		return pluginPath
	}
	return shortID + ":" + pluginPath
}

// FormatHistoryPath composes the history form: `shortId:` followed by
// either the plain plugin path, or the mount-qualified
// `<instance-context>|/plugin/path` form when instanceContext is set.
func FormatHistoryPath(shortID, instanceContext, pluginPath string) string {
	if isFileShortID(shortID) {
		return pluginPath
	}
	if instanceContext == "" {
		return shortID + ":" + pluginPath
	}
	return shortID + ":" + instanceContext + "|" + pluginPath
}
