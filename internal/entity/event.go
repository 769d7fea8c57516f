package entity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
)

const (
	CommentTypeAttribute = "comment_type"
	CaptionCommentType   = "Caption"
)

// TransportRecord is one opaque message of an inbound batch.
type TransportRecord struct {
	MessageID  string
	Body       []byte
	Attributes map[string]string
}

// Envelope is a single storage notification or caption update
// extracted from a TransportRecord.
type Envelope struct {
	MessageID   string
	BucketName  string
	ObjectKey   string // raw, as published
	EventName   string
	Description string
	Attributes  map[string]string
}

type EventKind int

const (
	KindRejected EventKind = iota
	KindCreate
	KindDelete
	KindCaptionUpdate
	KindGenericUpdate
)

func (k EventKind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindDelete:
		return "delete"
	case KindCaptionUpdate:
		return "caption_update"
	case KindGenericUpdate:
		return "generic_update"
	default:
		return "rejected"
	}
}

const (
	ReasonUnsupportedSubtype = "unsupported_subtype"
	ReasonUnclassified       = "unclassified"
)

type Classification struct {
	Kind   EventKind
	Reason string // set for KindRejected
}

// Route is the set of event kinds one consumer is subscribed to.
type Route string

const (
	RouteCreate Route = "create"
	RouteDelete Route = "delete"
	RouteUpdate Route = "update"
	RouteTable  Route = "table"
	RouteAll    Route = "all"
)

var routeKinds = map[Route][]EventKind{
	RouteCreate: {KindCreate},
	RouteDelete: {KindDelete, KindGenericUpdate},
	RouteUpdate: {KindCaptionUpdate, KindGenericUpdate},
	RouteTable:  {KindDelete, KindCaptionUpdate, KindGenericUpdate},
	RouteAll:    {KindCreate, KindDelete, KindCaptionUpdate, KindGenericUpdate},
}

func ParseRoute(s string) (Route, error) {
	r := Route(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := routeKinds[r]; !ok {
		return "", fmt.Errorf("ParseRoute - %q: %w", s, errs.ErrUnknownRoute)
	}

	return r, nil
}

func (r Route) Handles(kind EventKind) bool {
	return slices.Contains(routeKinds[r], kind)
}
