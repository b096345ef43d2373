package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// File is one source document registered with a FileSet. Content is kept
// byte-for-byte: spans from the front end index into it unchanged.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
}

// LineCol is a 1-based line and column (in bytes).
type LineCol struct {
	Line uint32
	Col  uint32
}

// FileSet maps FileIDs to documents so spans can be shown as path:line:col.
// ID 0 is reserved for synthesized spans.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the directory paths are shown relative to.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add registers a document and returns its FileID. Adding the same path again
// creates a new version; GetLatest returns the newest.
func (fileSet *FileSet) Add(path string, content []byte) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	normalized := normalizePath(path)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalized,
		Content: content,
		LineIdx: buildLineIndex(content),
	})
	fileSet.index[normalized] = id
	return id
}

// Load reads a document from disk and registers it.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return NoFileID, err
	}
	return fileSet.Add(path, content), nil
}

// Get returns the document for id.
func (fileSet *FileSet) Get(id FileID) (*File, bool) {
	if id == NoFileID || int(id) >= len(fileSet.files) {
		return nil, false
	}
	return &fileSet.files[id], true
}

// GetLatest returns the newest FileID registered for path.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Len returns the number of registered documents.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files) - 1
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol, ok bool) {
	f, ok := fileSet.Get(span.File)
	if !ok {
		return LineCol{}, LineCol{}, false
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End), true
}

// Position renders span as path:line:col, falling back to the raw span for
// unknown documents.
func (fileSet *FileSet) Position(span Span) string {
	start, _, ok := fileSet.Resolve(span)
	if !ok {
		return span.String()
	}
	f, _ := fileSet.Get(span.File)
	path := f.Path
	if rel, err := RelativePath(f.Path, fileSet.BaseDir()); err == nil {
		path = rel
	}
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lenLineIdx, err := safecast.Conv[uint32](len(f.LineIdx))
	if err != nil {
		panic(fmt.Errorf("line index length overflow: %w", err))
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}

	var start, end uint32
	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = f.LineIdx[lineNum-2] + 1
	default:
		return ""
	}
	if (lineNum - 1) < lenLineIdx {
		end = f.LineIdx[lineNum-1]
	} else {
		end = lenContent
	}
	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	return string(f.Content[start:end])
}

// BaseName returns the last path element.
func BaseName(path string) string {
	return filepath.Base(path)
}
