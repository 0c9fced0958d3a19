package softgl

import (
	"encoding/binary"
	"math"
)

type shadedVertex struct {
	done bool
	// Rejected when w <= 0.
	ok   bool
	sx   float32
	sy   float32
	z    float32
	invW float32
	vary []float32 // varyings pre-multiplied by invW
}

// DrawElements draws count indices from the bound ElementArrayBuffer starting
// at byte offset. Only Triangles with UnsignedShort indices are supported.
func (c *Context) DrawElements(mode Enum, count int, typ Enum, offset int) {
	if mode != Triangles {
		c.fail(ErrInvalidEnum, "DrawElements: mode %v", mode)
		return
	}
	if typ != UnsignedShort {
		c.fail(ErrInvalidEnum, "DrawElements: type %v", typ)
		return
	}
	if count < 0 || offset < 0 || offset%2 != 0 {
		c.fail(ErrInvalidValue, "DrawElements: count=%d offset=%d", count, offset)
		return
	}
	if c.current == 0 {
		c.fail(ErrInvalidOperation, "DrawElements: no current program")
		return
	}
	if c.elementBuf == 0 {
		c.fail(ErrInvalidOperation, "DrawElements: no ELEMENT_ARRAY_BUFFER bound")
		return
	}
	data := c.buffers[c.elementBuf].data
	if offset+2*count > len(data) {
		c.fail(ErrInvalidOperation, "DrawElements: %d indices at offset %d exceed buffer of %d bytes", count, offset, len(data))
		return
	}
	indices := make([]uint16, count)
	maxIndex := -1
	for i := range indices {
		indices[i] = binary.LittleEndian.Uint16(data[offset+2*i:])
		if int(indices[i]) > maxIndex {
			maxIndex = int(indices[i])
		}
	}
	exe := c.programs[c.current].exe
	if !c.validateAttribs(exe, maxIndex) {
		return
	}
	c.stats.DrawCalls++
	if count < 3 {
		return
	}

	w, h := c.surface.Size()
	if w <= 0 || h <= 0 {
		return
	}
	c.ensureDepth(w, h)
	c.drawTriangles(exe, indices, maxIndex, w, h)
}

func (c *Context) validateAttribs(exe *executable, maxIndex int) bool {
	for i := range exe.attribs {
		arr := c.attribs[i]
		if !arr.enabled {
			continue
		}
		buf, ok := c.buffers[arr.buf]
		if arr.buf == 0 || !ok {
			c.fail(ErrInvalidOperation, "DrawElements: attribute %d enabled with no buffer", i)
			return false
		}
		stride := arr.stride
		if stride == 0 {
			stride = 4 * arr.size
		}
		need := arr.offset + maxIndex*stride + 4*arr.size
		if have := len(buf.data); need > have {
			c.fail(ErrInvalidOperation, "DrawElements: attribute %d needs %d bytes, buffer has %d", i, need, have)
			return false
		}
	}
	return true
}

func (c *Context) fetchAttrib(arr attribArray, index int, t glslType) value {
	out := value{t: t}
	comps := [4]float32{0, 0, 0, 1}
	if arr.enabled {
		stride := arr.stride
		if stride == 0 {
			stride = 4 * arr.size
		}
		data := c.buffers[arr.buf].data
		off := arr.offset + index*stride
		for k := 0; k < arr.size; k++ {
			comps[k] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+4*k:]))
		}
	}
	copy(out.v[:t.size()], comps[:t.size()])
	return out
}

func (c *Context) drawTriangles(exe *executable, indices []uint16, maxIndex, w, h int) {
	vsEnv := exe.vs.newEnv()
	fsEnv := exe.fs.newEnv()
	for _, u := range exe.uniforms {
		if u.vsSlot >= 0 {
			vsEnv[u.vsSlot] = u.current
		}
		if u.fsSlot >= 0 {
			fsEnv[u.fsSlot] = u.current
		}
	}

	verts := make([]shadedVertex, maxIndex+1)
	shade := func(index int) *shadedVertex {
		sv := &verts[index]
		if sv.done {
			return sv
		}
		sv.done = true
		for i, a := range exe.attribs {
			vsEnv[a.vsSlot] = c.fetchAttrib(c.attribs[i], index, a.t)
		}
		vsEnv[exe.vs.out] = value{t: tVec4}
		for _, vb := range exe.varyings {
			vsEnv[vb.vsSlot] = value{t: vsEnv[vb.vsSlot].t}
		}
		exe.vs.run(vsEnv)

		pos := vsEnv[exe.vs.out].v
		if !(pos[3] > 0) {
			return sv
		}
		invW := 1 / pos[3]
		sv.ok = true
		sv.invW = invW
		sv.sx = (pos[0]*invW*0.5 + 0.5) * float32(w)
		sv.sy = (1 - (pos[1]*invW*0.5 + 0.5)) * float32(h)
		sv.z = pos[2] * invW
		sv.vary = make([]float32, 0, exe.varyingFloats)
		for _, vb := range exe.varyings {
			src := vsEnv[vb.vsSlot].v
			for k := 0; k < vb.size; k++ {
				sv.vary = append(sv.vary, src[k]*invW)
			}
		}
		return sv
	}

	for i := 0; i+2 < len(indices); i += 3 {
		v0 := shade(int(indices[i]))
		v1 := shade(int(indices[i+1]))
		v2 := shade(int(indices[i+2]))
		// Trivial clip: any vertex at or behind the eye drops the triangle.
		if !v0.ok || !v1.ok || !v2.ok {
			continue
		}
		c.stats.Triangles++
		c.fillTriangle(exe, fsEnv, w, h, v0, v1, v2)
	}
}

func (c *Context) fillTriangle(exe *executable, fsEnv []value, w, h int, v0, v1, v2 *shadedVertex) {
	area := edgeFn(v0.sx, v0.sy, v1.sx, v1.sy, v2.sx, v2.sy)
	if area == 0 {
		return
	}
	invArea := 1 / area

	minX := int(floor32(min3f(v0.sx, v1.sx, v2.sx)))
	maxX := int(ceil32(max3f(v0.sx, v1.sx, v2.sx)))
	minY := int(floor32(min3f(v0.sy, v1.sy, v2.sy)))
	maxY := int(ceil32(max3f(v0.sy, v1.sy, v2.sy)))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	out := exe.fs.out
	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			// Dividing by the signed area makes both windings positive inside.
			a0 := edgeFn(v1.sx, v1.sy, v2.sx, v2.sy, px, py) * invArea
			a1 := edgeFn(v2.sx, v2.sy, v0.sx, v0.sy, px, py) * invArea
			a2 := edgeFn(v0.sx, v0.sy, v1.sx, v1.sy, px, py) * invArea
			if a0 < 0 || a1 < 0 || a2 < 0 {
				continue
			}
			z := a0*v0.z + a1*v1.z + a2*v2.z
			// NDC z in [-1,1] maps to depth [0,1]; outside is clipped.
			d := z*0.5 + 0.5
			if d < 0 || d > 1 {
				continue
			}
			if c.depthTest {
				idx := y*w + x
				if d >= c.depth[idx] {
					continue
				}
				c.depth[idx] = d
			}

			q := a0*v0.invW + a1*v1.invW + a2*v2.invW
			if q != 0 {
				k := 0
				for _, vb := range exe.varyings {
					dst := &fsEnv[vb.fsSlot]
					for j := 0; j < vb.size; j++ {
						dst.v[j] = (a0*v0.vary[k] + a1*v1.vary[k] + a2*v2.vary[k]) / q
						k++
					}
				}
			}

			fsEnv[out] = value{t: tVec4}
			exe.fs.run(fsEnv)
			fc := fsEnv[out].v
			c.surface.SetPixel(x, y, ColorF(fc[0], fc[1], fc[2], fc[3]))
			c.stats.Fragments++
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y float32) float32 {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func floor32(v float32) float32 { return float32(math.Floor(float64(v))) }
func ceil32(v float32) float32  { return float32(math.Ceil(float64(v))) }

func min3f(a, b, c float32) float32 { return min(a, b, c) }
func max3f(a, b, c float32) float32 { return max(a, b, c) }
