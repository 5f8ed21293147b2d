package types

// Standard collection names for Datastore.Collection.
const (
	CollectionTasks    = "tasks"
	CollectionContacts = "contacts"
)

// StandardCollectionNames lists all standard collection names for enumeration.
var StandardCollectionNames = []string{
	CollectionTasks,
	CollectionContacts,
}

// Field names shared by the standard collections.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueDate     = "dueDate"
	FieldPriority    = "priority"
	FieldAuthor      = "author"
	FieldName        = "name"
	FieldEmail       = "email"
)

// Sort keys understood by Collection.List.
const (
	SortCreated     = "created"
	SortCreatedDesc = "-created"
	SortUpdated     = "updated"
	SortUpdatedDesc = "-updated"
)
