// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

// releaser is a stack of release functions, run in reverse order of
// registration. Each owner of GPU objects registers a release as soon
// as an object is created, so that a failure part way through
// construction releases exactly what was built.
type releaser []func()

func (r *releaser) add(fn func()) {
	*r = append(*r, fn)
}

// release runs and clears all registered functions, last first.
func (r *releaser) release() {
	s := *r
	for i := len(s) - 1; i >= 0; i-- {
		s[i]()
	}
	*r = nil
}

// own registers obj for destruction on r and returns it.
func own[T interface{ Destroy() }](r *releaser, obj T) T {
	r.add(obj.Destroy)
	return obj
}
