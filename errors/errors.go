package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrInvalidPayload   = fmt.Errorf("invalid payload")
	ErrCommandNotFound  = fmt.Errorf("command not found")
	ErrNoPermission     = fmt.Errorf("no permission")
	ErrMissingArgument  = fmt.Errorf("missing argument")
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrUnknownAction    = fmt.Errorf("unknown action")
	ErrTimeout          = fmt.Errorf("timeout waiting for reply")
	ErrNotImplemented   = fmt.Errorf("not implemented")
	ErrQueueFull        = fmt.Errorf("queue full")
	ErrGroupNotFound    = fmt.Errorf("group not found")
	ErrAgentNotFound    = fmt.Errorf("agent not found")
	ErrFolderNotFound   = fmt.Errorf("folder not found")
	ErrItemNotFound     = fmt.Errorf("item not found")
	ErrNotSitting       = fmt.Errorf("not sitting")
	ErrDuplicateGroup   = fmt.Errorf("duplicate group")
	ErrUnknownGrant     = fmt.Errorf("unknown permission or notification")
	ErrDeliveryRejected = fmt.Errorf("delivery rejected by endpoint")
	ErrHandlerPanic     = fmt.Errorf("command handler panic")
)
