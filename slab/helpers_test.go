package slab

import (
	"reflect"
	"unsafe"
)

func typeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }

func ptrOf[T any](p *T) unsafe.Pointer { return unsafe.Pointer(p) }
