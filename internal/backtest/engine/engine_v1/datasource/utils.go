package datasource

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/moznion/go-optional"
)

// timeRange adds inclusive time bounds to a query.
func timeRange(query squirrel.SelectBuilder, start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return query
}
