// Package identify assigns type tags to files, used by hook file-type
// filters. A file carries tags for what it is (file, symlink, executable),
// what it contains (text, binary) and the languages/formats its name or
// shebang indicates.
package identify

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gomime "github.com/cubewise-code/go-mime"
)

const (
	TagFile          = "file"
	TagDirectory     = "directory"
	TagSymlink       = "symlink"
	TagExecutable    = "executable"
	TagNonExecutable = "non-executable"
	TagText          = "text"
	TagBinary        = "binary"
)

// extensionTags maps a file extension to its content tags. Text formats
// carry the "text" tag so hooks can filter on it directly.
var extensionTags = map[string][]string{
	".bash":  {"bash", "shell", TagText},
	".c":     {"c", TagText},
	".cc":    {"c++", TagText},
	".cfg":   {"ini", TagText},
	".cpp":   {"c++", TagText},
	".cs":    {"c#", TagText},
	".css":   {"css", TagText},
	".csv":   {"csv", TagText},
	".go":    {"go", TagText},
	".h":     {"header", TagText},
	".html":  {"html", TagText},
	".ini":   {"ini", TagText},
	".java":  {"java", TagText},
	".js":    {"javascript", TagText},
	".json":  {"json", TagText},
	".jsx":   {"jsx", "javascript", TagText},
	".md":    {"markdown", TagText},
	".mod":   {"go-mod", TagText},
	".php":   {"php", TagText},
	".proto": {"proto", TagText},
	".py":    {"python", TagText},
	".pyi":   {"pyi", "python", TagText},
	".rb":    {"ruby", TagText},
	".rs":    {"rust", TagText},
	".sh":    {"shell", TagText},
	".sql":   {"sql", TagText},
	".sum":   {"go-sum", TagText},
	".tf":    {"terraform", TagText},
	".toml":  {"toml", TagText},
	".ts":    {"ts", "typescript", TagText},
	".tsx":   {"tsx", "typescript", TagText},
	".txt":   {TagText},
	".xml":   {"xml", TagText},
	".yaml":  {"yaml", TagText},
	".yml":   {"yaml", TagText},
}

// nameTags maps well-known file names (no useful extension) to tags.
var nameTags = map[string][]string{
	"Dockerfile":      {"dockerfile", TagText},
	"Makefile":        {"makefile", TagText},
	"go.mod":          {"go-mod", TagText},
	"go.sum":          {"go-sum", TagText},
	".gitignore":      {"gitignore", TagText},
	".gitattributes":  {"gitattributes", TagText},
	"requirements.txt": {"requirements", TagText},
}

// interpreterTags maps a shebang interpreter base name to tags.
var interpreterTags = map[string][]string{
	"ash":     {"shell", "ash"},
	"bash":    {"shell", "bash"},
	"dash":    {"shell", "dash"},
	"ksh":     {"shell", "ksh"},
	"node":    {"javascript"},
	"nodejs":  {"javascript"},
	"perl":    {"perl"},
	"python":  {"python"},
	"python2": {"python"},
	"python3": {"python"},
	"ruby":    {"ruby"},
	"sh":      {"shell", "sh"},
	"zsh":     {"shell", "zsh"},
}

var knownTags = buildKnownTags()

func buildKnownTags() map[string]struct{} {
	known := map[string]struct{}{
		TagFile:          {},
		TagDirectory:     {},
		TagSymlink:       {},
		TagExecutable:    {},
		TagNonExecutable: {},
		TagText:          {},
		TagBinary:        {},
	}
	for _, tags := range extensionTags {
		for _, tag := range tags {
			known[tag] = struct{}{}
		}
	}
	for _, tags := range nameTags {
		for _, tag := range tags {
			known[tag] = struct{}{}
		}
	}
	for _, tags := range interpreterTags {
		for _, tag := range tags {
			known[tag] = struct{}{}
		}
	}
	return known
}

// KnownTag returns true if tag is part of the recognized tag vocabulary.
func KnownTag(tag string) bool {
	_, found := knownTags[tag]
	return found
}

// NameTags returns the tags derived from the file name alone.
func NameTags(name string) []string {
	set := make(map[string]struct{})
	base := filepath.Base(name)
	if tags, found := nameTags[base]; found {
		addTags(set, tags)
	}
	if tags, found := extensionTags[strings.ToLower(filepath.Ext(base))]; found {
		addTags(set, tags)
	}
	return sortedTags(set)
}

// Tags returns all the tags of the file at path. Name tags are always
// assigned; mode, shebang and content tags require the file to exist on disk.
func Tags(path string) []string {
	set := make(map[string]struct{})
	addTags(set, NameTags(path))

	info, err := os.Lstat(path)
	if err != nil {
		// file is not on disk (e.g. listed by git but removed) - name tags only
		return sortedTags(set)
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		set[TagSymlink] = struct{}{}
		return sortedTags(set)
	case info.IsDir():
		set[TagDirectory] = struct{}{}
		return sortedTags(set)
	}

	set[TagFile] = struct{}{}
	if info.Mode()&0o111 != 0 {
		set[TagExecutable] = struct{}{}
		addTags(set, shebangTags(path))
	} else {
		set[TagNonExecutable] = struct{}{}
	}

	if _, tagged := set[TagText]; !tagged {
		if isTextByExtension(path) {
			set[TagText] = struct{}{}
		} else {
			set[TagBinary] = struct{}{}
		}
	}
	return sortedTags(set)
}

// isTextByExtension falls back to a MIME lookup for extensions missing from
// the tag tables.
func isTextByExtension(path string) bool {
	contentType := gomime.TypeByExtension(filepath.Ext(path))
	if strings.HasPrefix(contentType, "text/") {
		return true
	}
	switch contentType {
	case "application/json", "application/javascript", "application/xml", "application/x-sh":
		return true
	}
	return false
}

// shebangTags reads the first line of an executable and maps its interpreter
// to tags. Returns nil when there is no shebang.
func shebangTags(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, "#!") {
		return nil
	}
	parts := strings.Fields(line[2:])
	if len(parts) == 0 {
		return nil
	}
	interpreter := filepath.Base(parts[0])
	// `#!/usr/bin/env python3` - the interpreter is the first argument
	if interpreter == "env" && len(parts) > 1 {
		interpreter = filepath.Base(parts[1])
	}
	tags := interpreterTags[interpreter]
	if tags == nil {
		return nil
	}
	return append(tags, TagText)
}

func addTags(set map[string]struct{}, tags []string) {
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
}

func sortedTags(set map[string]struct{}) []string {
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
