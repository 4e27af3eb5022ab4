package backend

// movingGradientBGRA generates an animated gradient test pattern in
// ARGB8888 byte order (B, G, R, A per pixel, little-endian word — matching
// protocol.FormatArgb8888's in-memory layout), directly grounded on
// original_source/src/server/backends/mock/patterns.rs's moving_gradient_bgra.
func movingGradientBGRA(width, height int32, frame uint64) []byte {
	out := make([]byte, int(width)*int(height)*4)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			i := (int(y)*int(width) + int(x)) * 4
			fx := (uint64(x) + frame) % 256
			fy := (uint64(y) + frame/2) % 256
			out[i+0] = byte(fx)
			out[i+1] = byte(fy)
			out[i+2] = byte(255 - fx)
			out[i+3] = 255
		}
	}
	return out
}

// solidColorBGRA fills a width*height BGRA buffer with one color. Not
// present in original_source/src/server/backends/mock/patterns.rs (it only
// ships moving_gradient_bgra); added the same way for the mock badge
// subsurface, which needs a cheap, visibly-distinct fill rather than the
// animated gradient its parent uses.
func solidColorBGRA(width, height int32, b, g, r, a byte) []byte {
	out := make([]byte, int(width)*int(height)*4)
	for i := 0; i < len(out); i += 4 {
		out[i+0] = b
		out[i+1] = g
		out[i+2] = r
		out[i+3] = a
	}
	return out
}
