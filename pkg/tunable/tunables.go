// Package tunable holds named integer parameters that can be nudged at
// runtime (from the bench console or a test program) without restarting
// the controller.  Reads are atomic so the control loop can sample them
// every tick.
package tunable

import (
	"fmt"
	"sort"
	"sync/atomic"
)

type Tunable struct {
	Name  string
	Value int64
}

func (t *Tunable) Add(delta int) {
	newV := atomic.AddInt64(&t.Value, int64(delta))
	fmt.Println("Tunable", t.Name, "=", newV)
}

func (t *Tunable) Set(v int) {
	atomic.StoreInt64(&t.Value, int64(v))
	fmt.Println("Tunable", t.Name, "=", v)
}

func (t *Tunable) Get() int {
	return int(atomic.LoadInt64(&t.Value))
}

type Tunables struct {
	All []*Tunable
}

func (t *Tunables) Create(name string, value int) *Tunable {
	newTunable := &Tunable{
		Name:  name,
		Value: int64(value),
	}
	t.All = append(t.All, newTunable)
	return newTunable
}

// Find returns the tunable with the given name, or nil.
func (t *Tunables) Find(name string) *Tunable {
	for _, tt := range t.All {
		if tt.Name == name {
			return tt
		}
	}
	return nil
}

// Dump prints every tunable and its current value, sorted by name.
func (t *Tunables) Dump() {
	sorted := append([]*Tunable(nil), t.All...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	for _, tt := range sorted {
		fmt.Println("Tunable", tt.Name, "=", tt.Get())
	}
}
