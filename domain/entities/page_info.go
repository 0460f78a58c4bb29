package entities

// PageInfo is where the browser was when something went wrong
type PageInfo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}
