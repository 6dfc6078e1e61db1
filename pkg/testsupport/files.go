// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteAudioFile writes a file of exactly size bytes under dir and returns its path.
// Files of 44 bytes or more start with a PCM WAV header so content sniffing
// recognises them as audio.
func WriteAudioFile(t testing.TB, dir, name string, size int) string {
	t.Helper()

	data := make([]byte, size)
	if size >= 44 {
		copy(data, wavHeader(uint32(size-44)))
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write audio fixture: %v", err)
	}
	return path
}

func wavHeader(dataSize uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, dataSize+36)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))     // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))     // mono
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16000)) // sample rate
	_ = binary.Write(&buf, binary.LittleEndian, uint32(32000)) // byte rate
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))     // block align
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))    // bits per sample
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataSize)
	return buf.Bytes()
}
