package entity

import (
	"testing"

	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute(" Table ")
	require.NoError(t, err)
	assert.Equal(t, RouteTable, r)

	_, err = ParseRoute("resize")
	assert.ErrorIs(t, err, errs.ErrUnknownRoute)
}

func TestRoute_Handles(t *testing.T) {
	tests := []struct {
		route   Route
		handles []EventKind
		ignores []EventKind
	}{
		{RouteCreate, []EventKind{KindCreate}, []EventKind{KindDelete, KindCaptionUpdate, KindGenericUpdate, KindRejected}},
		{RouteDelete, []EventKind{KindDelete, KindGenericUpdate}, []EventKind{KindCreate, KindCaptionUpdate}},
		{RouteUpdate, []EventKind{KindCaptionUpdate, KindGenericUpdate}, []EventKind{KindCreate, KindDelete}},
		{RouteTable, []EventKind{KindDelete, KindCaptionUpdate, KindGenericUpdate}, []EventKind{KindCreate}},
		{RouteAll, []EventKind{KindCreate, KindDelete, KindCaptionUpdate, KindGenericUpdate}, []EventKind{KindRejected}},
	}

	for _, tt := range tests {
		t.Run(string(tt.route), func(t *testing.T) {
			for _, k := range tt.handles {
				assert.True(t, tt.route.Handles(k), k.String())
			}
			for _, k := range tt.ignores {
				assert.False(t, tt.route.Handles(k), k.String())
			}
		})
	}
}
