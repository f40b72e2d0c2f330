package zip

import (
	"archive/zip"
	"bytes"
	"encoding/json"
)

// Entry is one file inside an export archive.
type Entry struct {
	Filename string
	Data     []byte
}

// Archive packs the entries into a zip archive held in memory.
func Archive(entries []Entry) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Filename)
		if err != nil {
			continue
		}
		if _, err := w.Write(entry.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}

// JSONEntry marshals v with indentation into an archive entry. A marshal
// failure yields an entry with empty data rather than aborting the archive.
func JSONEntry(filename string, v any) Entry {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		data = nil
	}
	return Entry{Filename: filename, Data: data}
}
