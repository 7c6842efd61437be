package record

// Checks if all bytes in slice are printable ASCII
func isPrintableASCII(data []byte) (ascii bool) {
	for _, b := range data {
		if b < 0x20 || b > 0x7E {
			return
		}
	}
	ascii = true
	return
}
