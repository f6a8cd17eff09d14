package common

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"os"
	"path"
	"path/filepath"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// AssertPathExists returns nil only if it has been successfully
// verified that all specified paths exists.
func AssertPathExists(paths ...string) error {
	for _, p := range paths {
		exist, err := PathExists(p)
		if err != nil {
			return err
		}
		if !exist {
			return errors.Errorf("Path %s does not exist", p)
		}
	}
	return nil
}

// PathExists checks if the specified path exists.
func PathExists(path string) (bool, error) {
	_, exists, err := Stat(path)
	return exists, err
}

func Stat(path string) (os.FileInfo, bool, error) {
	info, err := os.Lstat(path)
	if err == nil {
		return info, true, nil
	}
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	return nil, false, err
}

func EnsureDirectoryExists(path string) error {
	info, exists, err := Stat(path)
	if err != nil {
		return err
	}
	if exists {
		if !info.IsDir() {
			return errors.Errorf("path %s exists but is not a directory", path)
		}
		return nil
	}
	return os.MkdirAll(path, 0700)
}

// SaveFile saves the file contents at the specified path atomically:
// - first save the content in a temp file with a random filename in the same dir
// - then rename the temp file to the specified filepath, overwriting the old file
func SaveFile(fpath string, content []byte) (err error) {
	fpath = filepath.FromSlash(fpath)
	if Logger != nil {
		Logger.Debug("writing ", fpath)
	}
	info, exists, err := Stat(fpath)
	if err != nil {
		return err
	}
	if exists && (info.IsDir() || !info.Mode().IsRegular()) {
		return errors.New("invalid destination path: not a file")
	}

	// Only accept 'simple' paths without . or .. or multiple separators
	if fpath != filepath.Clean(fpath) {
		return errors.New("invalid destination path")
	}

	randBytes := make([]byte, 16)
	_, err = rand.Read(randBytes)
	if err != nil {
		return
	}
	tempfilename := hex.EncodeToString(randBytes)

	dir := path.Dir(fpath)
	err = os.WriteFile(filepath.Join(dir, tempfilename), content, 0600)
	if err != nil {
		return
	}

	// Rename, overwriting old file
	return os.Rename(filepath.Join(dir, tempfilename), fpath)
}

// Base64Decode decodes the specified bytes as any of the Base64 dialects:
// standard encoding (+, /) and URL encoding (-, _), with or without padding.
func Base64Decode(b []byte) ([]byte, error) {
	var (
		err       error
		bts       []byte
		encodings = []*base64.Encoding{base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding, base64.StdEncoding}
	)
	for _, encoding := range encodings {
		if bts, err = encoding.DecodeString(string(b)); err == nil {
			break
		}
	}
	return bts, err
}
