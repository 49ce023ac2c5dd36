//go:build !linux

package materialize

import "os"

func adviseSequential(f *os.File) error {
	return nil
}
