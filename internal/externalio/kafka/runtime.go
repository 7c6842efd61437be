package kafka

// Produces are synchronous, nothing is buffered in the module
func (mod *OutModule) Flush() (err error) { return }

func (mod *OutModule) Shutdown() (err error) {
	if mod == nil || mod.client == nil {
		return
	}
	mod.client.Close()
	return
}
