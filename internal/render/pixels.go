package render

import "image/color"

// fadeRGBA darkens opaque RGBA pixels in buf as if black with the given alpha
// were painted over them.
func fadeRGBA(buf []byte, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha >= 1 {
		for i := 0; i < len(buf); i += 4 {
			buf[i+0] = 0
			buf[i+1] = 0
			buf[i+2] = 0
		}
		return
	}
	keep := uint32((1-alpha)*256 + 0.5)
	for i := 0; i < len(buf); i += 4 {
		buf[i+0] = uint8(uint32(buf[i+0]) * keep >> 8)
		buf[i+1] = uint8(uint32(buf[i+1]) * keep >> 8)
		buf[i+2] = uint8(uint32(buf[i+2]) * keep >> 8)
	}
}

// fillRGBA sets every pixel in buf to c.
func fillRGBA(buf []byte, c color.Color) {
	r, g, b, a := c.RGBA()
	for i := 0; i < len(buf); i += 4 {
		buf[i+0] = uint8(r >> 8)
		buf[i+1] = uint8(g >> 8)
		buf[i+2] = uint8(b >> 8)
		buf[i+3] = uint8(a >> 8)
	}
}
