package file

// Gracefully stops module, flushing buffered lines first
func (mod *OutModule) Shutdown() (err error) {
	if mod == nil {
		return
	}

	err = mod.Flush()
	if mod.sink != nil {
		closeErr := mod.sink.Close()
		if err == nil {
			err = closeErr
		}
	}
	return
}
