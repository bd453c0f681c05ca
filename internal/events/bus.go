// Package events реализует синхронную шину событий приложения.
// Подписка возможна по точному имени события, по регулярному выражению
// или на все события сразу (отладочный хук).
package events

import (
	"regexp"
	"sync"
)

// Event — опубликованное событие с произвольной полезной нагрузкой.
type Event struct {
	Name    string
	Payload any
}

// Handler обрабатывает событие. Ошибка обработчика прерывает
// доставку события оставшимся подписчикам.
type Handler func(event Event) error

// Token — идентификатор подписки, используется для отписки.
type Token int64

type subscription struct {
	token   Token
	name    string         // Точное имя; пусто для pattern- и all-подписок
	pattern *regexp.Regexp // Селектор по имени; nil для точных и all-подписок
	all     bool
	handler Handler
}

// matches проверяет селектор подписки по имени события.
func (s *subscription) matches(name string) bool {
	if s.all {
		return true
	}
	if s.pattern != nil {
		return s.pattern.MatchString(name)
	}
	return s.name == name
}

// Bus — реестр подписчиков с синхронной доставкой.
// Мьютекс защищает только список подписок: сами обработчики вызываются
// без блокировки, поэтому обработчик может публиковать новые события
// (доставка идёт в глубину).
type Bus struct {
	mu        sync.Mutex
	nextToken Token
	subs      []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe регистрирует обработчик на точное имя события.
func (b *Bus) Subscribe(name string, handler Handler) Token {
	return b.add(subscription{name: name, handler: handler})
}

// SubscribeMatch регистрирует обработчик на все события,
// имя которых подходит под регулярное выражение.
func (b *Bus) SubscribeMatch(pattern *regexp.Regexp, handler Handler) Token {
	return b.add(subscription{pattern: pattern, handler: handler})
}

// SubscribeAll регистрирует обработчик на каждую публикацию.
func (b *Bus) SubscribeAll(handler Handler) Token {
	return b.add(subscription{all: true, handler: handler})
}

// Unsubscribe удаляет подписку по токену. Неизвестный токен игнорируется.
func (b *Bus) Unsubscribe(token Token) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.token == token {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish синхронно доставляет событие всем подходящим подписчикам
// в порядке их регистрации. Ошибка обработчика прерывает доставку
// и возвращается вызывающему; изоляции ошибок нет.
// Публикация без подписчиков — безопасный no-op.
func (b *Bus) Publish(name string, payload any) error {
	b.mu.Lock()
	matched := make([]Handler, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.matches(name) {
			matched = append(matched, sub.handler)
		}
	}
	b.mu.Unlock()

	event := Event{Name: name, Payload: payload}
	for _, handler := range matched {
		if err := handler(event); err != nil {
			return err
		}
	}

	return nil
}

func (b *Bus) add(sub subscription) Token {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextToken++
	sub.token = b.nextToken
	b.subs = append(b.subs, sub)

	return sub.token
}
