package stitch

// buildPyramid returns levels progressively halved planes, level 0 being the
// input itself. A 2x2 box average is used when both dimensions halve
// cleanly; otherwise the level is filled by bilinear sampling so that a
// shift of d at level k still maps to a shift of 2d (±1 px) at level k-1.
func buildPyramid(src *GrayPlane, levels int) []*GrayPlane {
	pyr := make([]*GrayPlane, 0, levels)
	pyr = append(pyr, src)
	cur := src
	for i := 1; i < levels; i++ {
		nw := cur.W / 2
		if nw < 1 {
			nw = 1
		}
		nh := cur.H / 2
		if nh < 1 {
			nh = 1
		}
		var down *GrayPlane
		if nw*2 == cur.W && nh*2 == cur.H {
			down = downsampleBox(cur, nw, nh)
		} else {
			down = downsampleBilinear(cur, nw, nh)
		}
		pyr = append(pyr, down)
		cur = down
	}
	return pyr
}

func downsampleBox(src *GrayPlane, nw, nh int) *GrayPlane {
	out := NewGrayPlane(nw, nh)
	for y := 0; y < nh; y++ {
		top := src.Pix[(2*y)*src.W:]
		bot := src.Pix[(2*y+1)*src.W:]
		dst := out.Pix[y*nw:]
		for x := 0; x < nw; x++ {
			dst[x] = (top[2*x] + top[2*x+1] + bot[2*x] + bot[2*x+1]) * 0.25
		}
	}
	return out
}

func downsampleBilinear(src *GrayPlane, nw, nh int) *GrayPlane {
	out := NewGrayPlane(nw, nh)
	sx := float64(src.W) / float64(nw)
	sy := float64(src.H) / float64(nh)
	for y := 0; y < nh; y++ {
		fy := (float64(y)+0.5)*sy - 0.5
		y0 := int(fy)
		if y0 < 0 {
			y0 = 0
		}
		y1 := y0 + 1
		if y1 >= src.H {
			y1 = src.H - 1
		}
		wy := float32(fy - float64(y0))
		if wy < 0 {
			wy = 0
		}
		dst := out.Pix[y*nw:]
		for x := 0; x < nw; x++ {
			fx := (float64(x)+0.5)*sx - 0.5
			x0 := int(fx)
			if x0 < 0 {
				x0 = 0
			}
			x1 := x0 + 1
			if x1 >= src.W {
				x1 = src.W - 1
			}
			wx := float32(fx - float64(x0))
			if wx < 0 {
				wx = 0
			}
			p00 := src.Pix[y0*src.W+x0]
			p01 := src.Pix[y0*src.W+x1]
			p10 := src.Pix[y1*src.W+x0]
			p11 := src.Pix[y1*src.W+x1]
			top := p00 + (p01-p00)*wx
			bot := p10 + (p11-p10)*wx
			dst[x] = top + (bot-top)*wy
		}
	}
	return out
}
