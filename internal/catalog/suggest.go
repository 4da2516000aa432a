package catalog

import (
	"container/list"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// MinSuggestQueryLen — более короткие запросы автодополнения не отправляются.
const MinSuggestQueryLen = 2

// ErrStaleSuggestions — ответ автодополнения устарел: после него уже выдан более новый запрос.
var ErrStaleSuggestions = errors.New("stale autocomplete response")

// ShouldSuggest — достаточно ли длинный запрос для автодополнения.
func ShouldSuggest(query string) bool {
	return len([]rune(strings.TrimSpace(query))) >= MinSuggestQueryLen
}

// CompleteQuery — подставляет выбранную подсказку вместо последнего слова ввода.
func CompleteQuery(input, suggestion string) string {
	words := strings.Split(input, " ")
	words[len(words)-1] = suggestion
	return strings.Join(words, " ")
}

// Sequencer — монотонный счётчик запросов автодополнения одного клиента.
type Sequencer struct {
	last atomic.Uint64
}

// Next — номер нового запроса.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// IsLatest — ответ на запрос seq ещё актуален.
func (s *Sequencer) IsLatest(seq uint64) bool {
	return s.last.Load() == seq
}

// Sequencers — счётчики по профилям. Хранит не больше capacity профилей,
// вытесняется тот, к кому дольше всех не обращались.
type Sequencers struct {
	mu       sync.Mutex
	capacity int
	byKey    map[string]*list.Element
	lru      *list.List // front — самый свежий
}

type sequencerEntry struct {
	profile string
	seq     *Sequencer
}

func NewSequencers(capacity int) *Sequencers {
	if capacity <= 0 {
		capacity = 10_000
	}
	return &Sequencers{
		capacity: capacity,
		byKey:    make(map[string]*list.Element, capacity),
		lru:      list.New(),
	}
}

// For — счётчик профиля, создаётся при первом обращении.
func (s *Sequencers) For(profile string) *Sequencer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.byKey[profile]; ok {
		s.lru.MoveToFront(elem)
		return elem.Value.(*sequencerEntry).seq
	}
	if s.lru.Len() >= s.capacity {
		oldest := s.lru.Back()
		s.lru.Remove(oldest)
		delete(s.byKey, oldest.Value.(*sequencerEntry).profile)
	}
	ent := &sequencerEntry{profile: profile, seq: &Sequencer{}}
	s.byKey[profile] = s.lru.PushFront(ent)
	return ent.seq
}

// Len — число отслеживаемых профилей.
func (s *Sequencers) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}
