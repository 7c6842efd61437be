// Output destinations for processed detail records
package externalio

import (
	"context"
	"detailq/pkg/record"
	"time"
)

// Output is one destination a processed record is delivered to. Write must
// be safe for concurrent use by several workers; a returned error means the
// record was not durably delivered.
type Output interface {
	Name() string
	Write(ctx context.Context, delivery Delivery) (err error)
	Flush() (err error)
	Shutdown() (err error)
}

// Delivery is a parsed record plus where it came from.
type Delivery struct {
	Record     record.Record
	Source     string    // detail work file path
	Offset     int64     // record offset within Source
	Length     int       // record length in bytes
	Priority   string    // dispatch priority name
	ReceivedAt time.Time // when the record was read
}
