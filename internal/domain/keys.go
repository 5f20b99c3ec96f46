package domain

type CtxKey string

const (
	KeyUserID   CtxKey = "UserID"
	KeyUserName CtxKey = "UserName"
	KeyIsAdmin  CtxKey = "IsAdmin"
)
