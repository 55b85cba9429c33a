package main

// The operand stack keeps its top element in a register beside a backing
// array that grows downward. Depth is pointer arithmetic; overflow drops
// the push and underflow yields zero, never an error. Cell helpers index
// the logical stack from the bottom so frame and shuffle opcodes need not
// care about the split representation.

func (sh *Shell) depth() int { return len(sh.stack) - sh.sp }

func (sh *Shell) push(v int) {
	if sh.depth() == len(sh.stack) {
		return
	}
	sh.sp--
	sh.stack[sh.sp] = sh.tos
	sh.tos = v
}

func (sh *Shell) pop() int {
	res := sh.tos
	if sh.depth() > 0 {
		sh.tos = sh.stack[sh.sp]
		sh.sp++
	} else {
		sh.tos = 0
	}
	return res
}

func (sh *Shell) clear() {
	sh.sp = len(sh.stack)
	sh.tos = 0
}

// cellAt reads the i-th logical cell counting from the bottom; the top
// cell lives in the tos register, every other cell in the backing array.
func (sh *Shell) cellAt(i int) int {
	d := sh.depth()
	if i < 0 || i >= d {
		return 0
	}
	if i == d-1 {
		return sh.tos
	}
	return sh.stack[len(sh.stack)-2-i]
}

func (sh *Shell) setCellAt(i, v int) {
	d := sh.depth()
	if i < 0 || i >= d {
		return
	}
	if i == d-1 {
		sh.tos = v
		return
	}
	sh.stack[len(sh.stack)-2-i] = v
}

func (sh *Shell) setDepth(d int) {
	if d <= 0 {
		sh.clear()
		return
	}
	if d > len(sh.stack) {
		d = len(sh.stack)
	}
	nt := sh.cellAt(d - 1)
	sh.sp = len(sh.stack) - d
	sh.tos = nt
}

// cells returns the logical stack, bottom to top.
func (sh *Shell) cells() []int {
	out := make([]int, sh.depth())
	for i := range out {
		out[i] = sh.cellAt(i)
	}
	return out
}

// frameMark establishes the current frame base n cells below the top, so
// that frame element 1 is the first of the n marked arguments.
func (sh *Shell) frameMark(n int) {
	fp := sh.depth() - n
	if fp < 0 {
		fp = 0
	}
	sh.fp = fp
}

// frameResolve collapses the stack back to the frame base, keeping the top
// m cells as the frame's results. Cells below the base are never moved.
func (sh *Shell) frameResolve(m int) {
	if m < 0 {
		m = 0
	}
	d := sh.depth()
	vals := make([]int, m)
	for k := range vals {
		vals[k] = sh.cellAt(d - m + k)
	}
	sh.setDepth(sh.fp + m)
	for k, v := range vals {
		sh.setCellAt(sh.fp+k, v)
	}
}

// roll rotates the top n cells, bringing the n-th from the top to the top.
// An out of range count leaves the stack unchanged.
func (sh *Shell) roll(n int) {
	d := sh.depth()
	if n < 1 || n > d {
		return
	}
	i := d - n
	v := sh.cellAt(i)
	for ; i < d-1; i++ {
		sh.setCellAt(i, sh.cellAt(i+1))
	}
	sh.setCellAt(d-1, v)
}
