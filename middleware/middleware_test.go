package middleware

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"
)

// TestMaskSecrets проверяет скрытие паролей в командах.
func TestMaskSecrets(t *testing.T) {
	cases := map[string]string{
		"/login demo Demo":            "/login ***",
		"/admin@training_bot su pass": "/admin@training_bot ***",
		"/add_user A B;a;secret":      "/add_user ***",
		"/reports passed":             "/reports passed",
		"/login":                      "/login",
		"hello":                       "hello",
	}
	for in, want := range cases {
		if got := MaskSecrets(in); got != want {
			t.Errorf("%q: ожидалось %q, получено %q", in, want, got)
		}
	}
}

// fakeContext контекст апдейта без бота, Send запоминает ответы
type fakeContext struct {
	tele.Context
	update tele.Update
	sent   []any
}

func (c *fakeContext) Update() tele.Update { return c.update }
func (c *fakeContext) Chat() *tele.Chat    { return c.update.Message.Chat }
func (c *fakeContext) Text() string        { return c.update.Message.Text }

func (c *fakeContext) Send(what any, _ ...any) error {
	c.sent = append(c.sent, what)
	return nil
}

// TestRecover проверяет, что паника превращается в ошибку, пишется в лог и пользователь получает ответ.
func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	c := &fakeContext{update: tele.Update{ID: 7, Message: &tele.Message{
		Chat: &tele.Chat{ID: 42},
		Text: "/login alice secret",
	}}}

	h := Recover(logger, "Something went wrong.")(func(tele.Context) error {
		panic("boom")
	})
	err := h(c)
	if !errors.Is(err, ErrPanic) || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("ожидалась ErrPanic с boom, получено %v", err)
	}
	if len(c.sent) != 1 || c.sent[0] != "Something went wrong." {
		t.Errorf("пользователь должен получить сообщение об ошибке, отправлено %v", c.sent)
	}
	out := buf.String()
	for _, want := range []string{"update 7 in chat 42", `"/login ***"`, "boom", "goroutine"} {
		if !strings.Contains(out, want) {
			t.Errorf("в логе нет %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret") {
		t.Errorf("пароль попал в лог:\n%s", out)
	}
}

// TestRecover_ErrorValue проверяет панику с ошибкой, отсутствие контекста и обычную ошибку.
func TestRecover_ErrorValue(t *testing.T) {
	var buf bytes.Buffer
	sentinel := errors.New("sentinel")

	h := Recover(log.New(&buf, "", 0), "ignored without chat")(func(tele.Context) error {
		panic(sentinel)
	})
	err := h(nil)
	if !errors.Is(err, ErrPanic) || !errors.Is(err, sentinel) {
		t.Errorf("ошибка паники должна оборачиваться, получено %v", err)
	}
	if !strings.Contains(buf.String(), "unknown update") {
		t.Errorf("в логе нет описания апдейта:\n%s", buf.String())
	}

	c := &fakeContext{update: tele.Update{Message: &tele.Message{Chat: &tele.Chat{ID: 1}}}}
	h = Recover(nil, "")(func(tele.Context) error { panic(42) })
	if err := h(c); !errors.Is(err, ErrPanic) || len(c.sent) != 0 {
		t.Errorf("без reply ответ не отправляется: err=%v sent=%v", err, c.sent)
	}

	h = Recover(nil, "unused")(func(tele.Context) error { return sentinel })
	if err := h(nil); !errors.Is(err, sentinel) {
		t.Errorf("ошибка обработчика должна передаваться дальше, получено %v", err)
	}
}
