package directory

import "fmt"

// Outcome is what a mutation reports back to the caller: whether it
// committed and a message fit for display. The cause of a failure is
// logged and never put in Message.
type Outcome struct {
	Success bool   `json:"success"`
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// Entity names used in outcome messages and change events.
const (
	EntityVenue  = "Venue"
	EntityArtist = "Artist"
	EntityShow   = "Show"
)

func Listed(entity, name string, id int64) Outcome {
	return Outcome{Success: true, Message: fmt.Sprintf("%s %s was successfully listed!", entity, name), ID: id}
}

func NotListed(entity, name string, kind Kind) Outcome {
	return Outcome{Kind: kind, Message: fmt.Sprintf("An error occurred. %s %s could not be listed.", entity, name)}
}

func Updated(entity, name string, id int64) Outcome {
	return Outcome{Success: true, Message: fmt.Sprintf("%s %s was successfully updated!", entity, name), ID: id}
}

func NotUpdated(entity, name string, kind Kind) Outcome {
	return Outcome{Kind: kind, Message: fmt.Sprintf("An error occurred. %s %s could not be updated.", entity, name)}
}

func Deleted(entity string, id int64) Outcome {
	return Outcome{Success: true, Message: fmt.Sprintf("%s was successfully deleted.", entity), ID: id}
}

func NotDeleted(entity string, kind Kind) Outcome {
	return Outcome{Kind: kind, Message: fmt.Sprintf("%s could not be deleted.", entity)}
}

// Shows have no name, so their messages leave it out.

func ShowListed(id int64) Outcome {
	return Outcome{Success: true, Message: "Show was successfully listed!", ID: id}
}

func ShowNotListed(kind Kind) Outcome {
	return Outcome{Kind: kind, Message: "An error occurred. Show could not be listed."}
}
