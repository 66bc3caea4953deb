package project

type TaskResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProjectResponse struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Code  string         `json:"code"`
	Tasks []TaskResponse `json:"tasks"`
}

type ProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}
