package entity

type OperatorLoginData struct {
	ID   string
	Name string
	Role string
}
