package vrtest

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobuffalo/packr"
	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"
)

//Suffix of lz4 framed shader binaries
const compressedSuffix = ".lz4"

// ShaderSource yields precompiled shader binaries by name.
type ShaderSource interface {
	ReadShader(name string) ([]byte, error)
}

// DirSource reads shader binaries from a directory through a memory map. A
// name that is missing on disk is retried with the lz4 suffix, and lz4 framed
// files are decompressed transparently.
type DirSource struct {
	Dir string
}

func (s DirSource) ReadShader(name string) ([]byte, error) {
	path := filepath.Join(s.Dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) && !strings.HasSuffix(path, compressedSuffix) {
		if _, cerr := os.Stat(path + compressedSuffix); cerr == nil {
			path += compressedSuffix
		}
	}

	data, err := readMapped(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, compressedSuffix) {
		return decompress(data)
	}
	return data, nil
}

func readMapped(path string) ([]byte, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}

func decompress(data []byte) ([]byte, error) {
	out, err := ioutil.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, errors.Wrap(err, "decompress lz4 shader")
	}
	return out, nil
}

// BoxSource serves shader binaries from a packr box, falling back to the box
// directory on disk during development.
type BoxSource struct {
	Box packr.Box
}

func NewBoxSource(dir string) BoxSource {
	return BoxSource{Box: packr.NewBox(dir)}
}

func (s BoxSource) ReadShader(name string) ([]byte, error) {
	data, err := s.Box.Find(name)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s in box", name)
	}
	if strings.HasSuffix(name, compressedSuffix) {
		return decompress(data)
	}
	return data, nil
}

// ShaderLoader turns shader binaries from a source into device modules.
type ShaderLoader struct {
	device Device
	source ShaderSource
	log    log.FieldLogger
}

func NewShaderLoader(device Device, source ShaderSource, logger log.FieldLogger) *ShaderLoader {
	return &ShaderLoader{device: device, source: source, log: logger}
}

// LoadShaderBinary reads name whole and hands it to the device as an opaque
// SPIR-V blob.
func (l *ShaderLoader) LoadShaderBinary(name string) (ShaderModule, error) {
	code, err := l.source.ReadShader(name)
	if err != nil {
		return nil, fatal("load shader "+name, err)
	}
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, fatalf("load shader "+name, "invalid SPIR-V size %d", len(code))
	}

	module, err := l.device.NewShaderModule(code)
	if err != nil {
		return nil, fatal("create shader module "+name, err)
	}
	l.log.WithFields(log.Fields{"shader": name, "bytes": len(code)}).Debug("shader loaded")
	return module, nil
}
