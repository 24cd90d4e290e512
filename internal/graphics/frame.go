package graphics

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const frameVertexSrc = `#version 410 core
out vec2 uv;
void main() {
    // Fullscreen triangle from the vertex index; no vertex buffer needed.
    vec2 p = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
    uv = vec2(p.x, 1.0 - p.y);
    gl_Position = vec4(p * 2.0 - 1.0, 0.0, 1.0);
}
`

const frameFragmentSrc = `#version 410 core
in vec2 uv;
out vec4 color;
uniform sampler2D frame;
void main() {
    color = texture(frame, uv);
}
`

// FramePresenter stretches a CPU-rendered image over the whole window.
// Image row 0 is shown at the top.
type FramePresenter struct {
	shader  *Shader
	vao     uint32
	texture uint32
	width   int
	height  int
}

// NewFramePresenter compiles the blit program. A GL context must be current.
func NewFramePresenter() (*FramePresenter, error) {
	shader, err := NewShader(frameVertexSrc, frameFragmentSrc)
	if err != nil {
		return nil, err
	}

	p := &FramePresenter{shader: shader}
	gl.GenVertexArrays(1, &p.vao)

	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return p, nil
}

// Upload copies img into the frame texture, reallocating it when the size changes.
func (p *FramePresenter) Upload(img *image.RGBA) {
	size := img.Rect.Size()

	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	if size.X != p.width || size.Y != p.height {
		gl.TexImage2D(
			gl.TEXTURE_2D,
			0,
			gl.RGBA,
			int32(size.X),
			int32(size.Y),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix),
		)
		p.width, p.height = size.X, size.Y
	} else {
		gl.TexSubImage2D(
			gl.TEXTURE_2D,
			0,
			0,
			0,
			int32(size.X),
			int32(size.Y),
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix),
		)
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Draw renders the last uploaded frame into the current viewport.
func (p *FramePresenter) Draw() {
	p.shader.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	p.shader.SetInt("frame", 0)

	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Delete releases the GL objects.
func (p *FramePresenter) Delete() {
	gl.DeleteTextures(1, &p.texture)
	gl.DeleteVertexArrays(1, &p.vao)
	p.shader.Delete()
}
