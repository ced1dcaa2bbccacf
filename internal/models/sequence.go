package models

// DocumentNumberSequence is a row of document_number_sequences.
type DocumentNumberSequence struct {
	DocType       string `db:"doc_type"`
	Prefix        string `db:"prefix"`
	Separator     string `db:"separator"`
	IncludeYear   bool   `db:"include_year"`
	IncludeMonth  bool   `db:"include_month"`
	NumberLength  int    `db:"number_length"`
	ResetYearly   bool   `db:"reset_yearly"`
	ResetMonthly  bool   `db:"reset_monthly"`
	CurrentYear   int    `db:"current_year"`
	CurrentMonth  int    `db:"current_month"`
	CurrentNumber int64  `db:"current_number"`
}
