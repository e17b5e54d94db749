package entities

import "time"

// PartOfSpeech is a grammatical tag such as "N" (noun) or "T" (time word).
// Rows are seeded at startup and never created by user flows.
type PartOfSpeech struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:10" json:"name"`
	Note      string    `gorm:"size:100" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Pinyin is a phonetic reading. A row is shared by every word that reads the same.
type Pinyin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64" json:"name" validate:"required,max=64"`
	CreatedAt time.Time `json:"created_at"`
}

// WordFreq records how often a word is observed under one part of speech.
type WordFreq struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	WordItemID     uint         `gorm:"uniqueIndex:idx_word_freq_word_pos" json:"word_item_id"`
	PartOfSpeechID uint         `gorm:"uniqueIndex:idx_word_freq_word_pos" json:"part_of_speech_id"`
	Freq           int          `gorm:"not null;default:0" json:"freq" validate:"gte=0"`
	PartOfSpeech   PartOfSpeech `gorm:"foreignKey:PartOfSpeechID" json:"part_of_speech" validate:"-"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Concept is a semantic grouping node. Concepts form a tree through ParentID.
type Concept struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"index;size:255" json:"name" validate:"required,max=255"`
	Note           string       `gorm:"type:text" json:"note" validate:"required"`
	PartOfSpeechID uint         `gorm:"index" json:"part_of_speech_id"`
	PartOfSpeech   PartOfSpeech `gorm:"foreignKey:PartOfSpeechID" json:"part_of_speech" validate:"-"`
	ParentID       *uint        `gorm:"index" json:"parent_id,omitempty"`
	Parent         *Concept     `gorm:"foreignKey:ParentID" json:"parent,omitempty" validate:"-"`
	WordItems      []WordItem   `gorm:"many2many:word_item_concepts;" json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// WordItem is a dictionary entry together with its readings, frequencies and concepts.
// UserID records the creator and is set once, when the item is added.
type WordItem struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"index;size:255" json:"name" validate:"required,max=255"`
	UserID    uint       `gorm:"index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user" validate:"-"`
	Pinyins   []Pinyin   `gorm:"many2many:word_item_pinyins;" json:"pinyins" validate:"dive"`
	WordFreqs []WordFreq `gorm:"foreignKey:WordItemID" json:"word_freqs" validate:"dive"`
	Concepts  []Concept  `gorm:"many2many:word_item_concepts;" json:"concepts" validate:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (PartOfSpeech) TableName() string {
	return "parts_of_speech"
}

func (Pinyin) TableName() string {
	return "pinyins"
}

func (WordFreq) TableName() string {
	return "word_freqs"
}

func (Concept) TableName() string {
	return "concepts"
}

func (WordItem) TableName() string {
	return "word_items"
}

// PinyinNames returns the reading names in stored order.
func (w *WordItem) PinyinNames() []string {
	names := make([]string, 0, len(w.Pinyins))
	for _, p := range w.Pinyins {
		names = append(names, p.Name)
	}
	return names
}

// PartOfSpeechNames returns the tag of every frequency record.
func (w *WordItem) PartOfSpeechNames() []string {
	names := make([]string, 0, len(w.WordFreqs))
	for _, f := range w.WordFreqs {
		names = append(names, f.PartOfSpeech.Name)
	}
	return names
}
