package controller_test

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/spiflash/controller"
)

// offsetOf reports where piece starts inside buf.
func offsetOf(buf, piece []byte) int {
	return cap(buf) - cap(piece)
}

func TestChunkCoversBuffer(t *testing.T) {
	for _, tc := range []struct {
		length  int
		maxSize int
	}{
		{0, 4096},
		{1, 4096},
		{4095, 4096},
		{4096, 4096},
		{4097, 4096},
		{9000, 4096},
		{100, 25},
		{26, 25},
		{7, 1},
	} {
		buf := make([]byte, tc.length)
		next := 0
		calls := 0
		err := controller.Chunk(buf, tc.maxSize, func(piece []byte) error {
			test.That(t, len(piece), test.ShouldBeGreaterThan, 0)
			test.That(t, len(piece), test.ShouldBeLessThanOrEqualTo, tc.maxSize)
			test.That(t, offsetOf(buf, piece), test.ShouldEqual, next)
			next += len(piece)
			calls++
			return nil
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, next, test.ShouldEqual, tc.length)
		test.That(t, calls, test.ShouldEqual, (tc.length+tc.maxSize-1)/tc.maxSize)
	}
}

func TestChunkSizes(t *testing.T) {
	var sizes []int
	err := controller.Chunk(make([]byte, 9000), 4096, func(piece []byte) error {
		sizes = append(sizes, len(piece))
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sizes, test.ShouldResemble, []int{4096, 4096, 808})
}

func TestChunkUnbounded(t *testing.T) {
	for _, maxSize := range []int{0, -1} {
		var sizes []int
		err := controller.Chunk(make([]byte, 9000), maxSize, func(piece []byte) error {
			sizes = append(sizes, len(piece))
			return nil
		})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, sizes, test.ShouldResemble, []int{9000})
	}

	called := false
	err := controller.Chunk(nil, 0, func(piece []byte) error {
		called = true
		return nil
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, called, test.ShouldBeFalse)
}

func TestChunkStopsAtFailure(t *testing.T) {
	errBus := errors.New("bus error")
	for failAt := 1; failAt <= 3; failAt++ {
		attempts := 0
		err := controller.Chunk(make([]byte, 9000), 4096, func(piece []byte) error {
			attempts++
			if attempts == failAt {
				return errBus
			}
			return nil
		})
		test.That(t, err, test.ShouldEqual, errBus)
		test.That(t, attempts, test.ShouldEqual, failAt)
	}
}
