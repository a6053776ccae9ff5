// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the storage package.
//
// Importing this package makes the following storage kinds available:
//
//   - "postgres" (energyetl/internal/storage/postgres)
//   - "sqlite"   (energyetl/internal/storage/sqlite)
//
// A binary that supports only a subset of backends can import the required
// backend packages directly instead of this one.
package all

import (
	_ "energyetl/internal/storage/postgres"
	_ "energyetl/internal/storage/sqlite"
)
