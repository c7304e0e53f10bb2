package breadcrumb

import "strings"

// Token is one path segment along with the full path it addresses,
// mirroring the original PathSegment{text, fullPath} pair.
type Token struct {
	Text     string
	FullPath string
}

// Tokenize splits a normalized plugin path into root + component
// tokens. `/@conn:<name>` is recognized as a single root token,
// since it is a host-reserved prefix rather than an ordinary
// directory component.
func Tokenize(pluginPath string) []Token {
	path := NormalizePluginPath(pluginPath)

	if strings.HasPrefix(path, connPrefix) {
		rest := path[1:] // drop the leading '/'
		nextSlash := strings.IndexByte(rest, '/')
		var rootText, remainder string
		if nextSlash < 0 {
			rootText = rest
			remainder = ""
		} else {
			rootText = rest[:nextSlash]
			remainder = rest[nextSlash+1:]
		}
		tokens := []Token{{Text: rootText, FullPath: "/" + rootText}}
		return append(tokens, componentTokens("/"+rootText, remainder)...)
	}

	tokens := []Token{{Text: "/", FullPath: "/"}}
	return append(tokens, componentTokens("", strings.TrimPrefix(path, "/"))...)
}

func componentTokens(accumulated, remainder string) []Token {
	var tokens []Token
	for _, part := range strings.Split(remainder, "/") {
		if part == "" {
			continue
		}
		if accumulated == "" || accumulated == "/" {
			accumulated = "/" + part
		} else {
			accumulated = accumulated + "/" + part
		}
		tokens = append(tokens, Token{Text: part, FullPath: accumulated})
	}
	return tokens
}
