package model

import "time"

// ScrapedAtLayout is the timestamp format stored in the menu cache file.
const ScrapedAtLayout = "2006-01-02 15:04:05"

// MenuItem is one soup or meal line from the scraped daily menu.
// Number is the ordinal printed before meal names ("3. Guláš"); soups
// never carry one. Allergens are the small integer codes printed in
// parentheses at the end of the item label.
type MenuItem struct {
	Number    *int   `json:"number,omitempty"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Allergens []int  `json:"allergens"`
}

// MenuDay is one day section of the scraped menu page, in page order.
type MenuDay struct {
	Date     string     `json:"date"`
	Soup     *MenuItem  `json:"soup,omitempty"`
	Meals    []MenuItem `json:"meals"`
	IsClosed bool       `json:"is_closed"`
	IsEmpty  bool       `json:"is_empty"`
}

// MenuCache is the full scraped menu document. It is replaced wholesale on
// every successful scrape; staleness is judged by callers comparing
// ScrapedAt to the current time.
type MenuCache struct {
	ScrapedAt string    `json:"scraped_at"`
	Days      []MenuDay `json:"days"`
}

// ScrapedTime parses the ScrapedAt field. The zero time is returned for
// an empty or malformed value.
func (m MenuCache) ScrapedTime() time.Time {
	t, err := time.ParseInLocation(ScrapedAtLayout, m.ScrapedAt, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
