// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTest = New("test error")

func returnsValue(fail bool) (int, error) {
	if fail {
		return 0, errTest
	}
	return 7, nil
}

func TestLog(t *testing.T) {
	assert.NoError(t, Log(nil))
	assert.ErrorIs(t, Log(fmt.Errorf("wrapped: %w", errTest)), errTest)
	assert.Equal(t, 7, Log1(returnsValue(false)))
	assert.Equal(t, 0, Log1(returnsValue(true)))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(errTest) })
	assert.Equal(t, 7, Must1(returnsValue(false)))
	assert.Panics(t, func() { Must1(returnsValue(true)) })
}

func TestIgnoreAndJoin(t *testing.T) {
	assert.Equal(t, 0, Ignore1(returnsValue(true)))
	err := Join(nil, errTest, nil)
	assert.True(t, Is(err, errTest))
	assert.Nil(t, Join(nil, nil))
}
