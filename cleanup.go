package vrtest

//releaser runs registered destructors in reverse order of registration. Owners
//push a destructor right after the matching creation succeeds, so teardown is
//always the mirror of construction.
type releaser struct {
	fns []func()
}

func (r *releaser) push(fn func()) {
	r.fns = append(r.fns, fn)
}

func (r *releaser) add(d Destroyer) {
	if d != nil {
		r.push(d.Destroy)
	}
}

func (r *releaser) release() {
	for i := len(r.fns) - 1; i >= 0; i-- {
		r.fns[i]()
	}
	r.fns = nil
}

func (r *releaser) len() int {
	return len(r.fns)
}
