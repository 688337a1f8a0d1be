/*
Package lphash provides an in-memory hash map with string keys, built on open
addressing with linear probing.

Basic usage:

	import "github.com/theflywheel/lphash"

	m, err := lphash.New[int]() // 8 slots, max load 0.5, 3x growth
	if err != nil {
		log.Fatal(err)
	}

	m.Set("a", 1)
	m.Set("b", 2)

	v, err := m.Get("a")
	if errors.Is(err, lphash.ErrKeyNotFound) {
		// absent
	}

	if err := m.Delete("a"); err != nil {
		// absent
	}
	fmt.Println(m.Len()) // 1

Features:

  - Generic values, string keys
  - DJB2 hashing by default, xxHash via WithHasher(lphash.XXHash32)
  - Lazy deletion with tombstones, reclaimed on resize
  - Automatic growth once live entries plus tombstones exceed the max load
  - Construction from functional options or a TOML file (LoadConfig)
  - Resize events reported to an optional zap logger

Implementation Details:

Every slot is Empty, Occupied or a Tombstone. A key's probe starts at
hash(key) mod capacity and walks forward, wrapping at the end, until it meets
the key or an Empty slot. Tombstones keep the chain connected for keys that
were inserted past a since-deleted entry.

Before each Set the map checks (live + tombstones + 1) / capacity against the
configured maximum and, when it is exceeded, grows the table by the growth
factor and reinserts every live entry. Tombstones do not survive the resize.
The table never shrinks.

With ProbeFirstEmpty (the default) a new key always lands on the first Empty
slot of its chain, so tombstones are only reclaimed by a resize.
ProbeReuseTombstone places it in the first Tombstone of the chain instead,
which delays resizes under delete-heavy workloads.

A Map is not safe for concurrent use.
*/
package lphash
