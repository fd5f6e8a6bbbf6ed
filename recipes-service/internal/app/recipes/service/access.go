package service

type Action string

const (
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

type ResourceKind string

const (
	ResourceRecipe  ResourceKind = "recipe"
	ResourceComment ResourceKind = "comment"
	ResourceReply   ResourceKind = "reply"
	ResourceLike    ResourceKind = "like"
	ResourceRating  ResourceKind = "rating"
	ResourceProfile ResourceKind = "profile"
)

// Resource - защищаемый объект и его владелец (автор рецепта, комментария или ответа)
type Resource struct {
	Kind    ResourceKind
	OwnerID string
}

// Authorize проверяет право callerID выполнить action над ресурсом.
// Создание требует только аутентификации, изменение и удаление - владения.
// Пустой callerID всегда даёт ErrUnauthenticated, а не ErrForbidden
func Authorize(callerID string, resource Resource, action Action) error {
	if callerID == "" {
		return ErrUnauthenticated
	}

	switch action {
	case ActionCreate:
		return nil
	case ActionEdit, ActionDelete:
		if resource.OwnerID != callerID {
			return ErrForbidden
		}
		return nil
	default:
		return ErrForbidden
	}
}

func requireCaller(callerID string) error {
	if callerID == "" {
		return ErrUnauthenticated
	}
	return nil
}
