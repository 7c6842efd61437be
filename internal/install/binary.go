package install

import (
	"detailq/internal/global"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

func installBinary() (err error) {
	selfPath, err := os.Executable()
	if err != nil {
		return
	}

	moved, err := placeBinary(selfPath, global.DefaultBinaryPath)
	if err != nil {
		return
	}
	if moved {
		fmt.Printf("Successfully installed binary to '%s'\n", global.DefaultBinaryPath)
	}
	return
}

// Moves src to dst. Falls back to copy and remove when they sit on different
// filesystems. Reports false when src already is dst.
func placeBinary(src, dst string) (moved bool, err error) {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return
	}
	if srcAbs == dst {
		return
	}

	err = os.MkdirAll(filepath.Dir(dst), 0755)
	if err != nil {
		err = fmt.Errorf("failed to create binary directory: %w", err)
		return
	}

	err = os.Rename(srcAbs, dst)
	if errors.Is(err, unix.EXDEV) {
		err = copyBinary(srcAbs, dst)
		if err == nil {
			err = os.Remove(srcAbs)
		}
	}
	if err != nil {
		err = fmt.Errorf("failed to move: %w", err)
		return
	}
	moved = true
	return
}

// Writes to a temporary sibling first so dst is never half written
func copyBinary(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()

	staging := dst + ".new"
	out, err := os.OpenFile(staging, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0755)
	if err != nil {
		return
	}

	_, err = io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(staging)
		return
	}
	err = out.Close()
	if err != nil {
		os.Remove(staging)
		return
	}

	err = os.Rename(staging, dst)
	return
}

func uninstallBinary() (err error) {
	err = os.Remove(global.DefaultBinaryPath)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
		return
	}
	if err != nil {
		return
	}

	fmt.Printf("Successfully removed binary from '%s'\n", global.DefaultBinaryPath)
	return
}
