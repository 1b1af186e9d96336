package shell

import (
	"os"
)

const (
	// FilePermission is 0o644 (rw-r--r--): owner can read/write, others can read
	FilePermission = 0o644
	// DirPermission is 0o755 (rwxr-xr-x)
	DirPermission = 0o755
)

// writeToFile is the redirection sink: it truncates or appends path with
// data. The file handle is closed on every path.
func (s *Shell) writeToFile(path string, data []byte, appendMode bool) error {
	flag := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	f, err := s.fs.OpenFile(path, flag, FilePermission)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
