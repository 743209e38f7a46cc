package webhook

// Event is Strava's webhook push payload. ObjectID is the activity id for
// activity events and the athlete id for athlete events.
type Event struct {
	ObjectType     string            `json:"object_type"`
	ObjectID       int64             `json:"object_id"`
	AspectType     string            `json:"aspect_type"`
	OwnerID        int64             `json:"owner_id"`
	SubscriptionID int64             `json:"subscription_id"`
	EventTime      int64             `json:"event_time"`
	Updates        map[string]string `json:"updates"`
}

// IsActivityCreate reports whether the event announces a new activity.
func (e Event) IsActivityCreate() bool {
	return e.ObjectType == "activity" && e.AspectType == "create"
}

// IsDeauthorize reports whether the athlete revoked the app's access.
func (e Event) IsDeauthorize() bool {
	return e.ObjectType == "athlete" && e.AspectType == "update" && e.Updates["authorized"] == "false"
}
