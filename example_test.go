package disposable_test

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/optimode/disposable"
	"github.com/optimode/disposable/domainlist"
	"github.com/optimode/disposable/source"
	"github.com/optimode/disposable/store/memstore"
)

// localList stands in for the remote blocklist.
var localList = source.Func(func(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("0-mail.com\nmailinator.com\n")), nil
})

func ExampleChecker_IsDisposable() {
	c := disposable.New().WithSource(localList).WithStore(memstore.New())

	for _, email := range []string{"user@example.com", "User@0-Mail.COM", "invalid-email"} {
		d, _ := c.IsDisposable(context.Background(), email)
		fmt.Println(email, d)
	}
	// Output:
	// user@example.com false
	// User@0-Mail.COM true
	// invalid-email true
}

func ExampleChecker_Classify() {
	c := disposable.New().WithSource(localList).WithoutCache()

	res, _ := c.Classify(context.Background(), "someone@mailinator.com")
	fmt.Println(res.Domain, res.Disposable, res.Details)

	res, _ = c.Classify(context.Background(), "bad email")
	fmt.Println(res.ValidSyntax, res.Disposable, res.Details)
	// Output:
	// mailinator.com true disposable email domain detected
	// false true invalid email syntax
}

func ExampleChecker_ClassifyMany() {
	c := disposable.New().WithSource(localList).WithStore(memstore.New())
	emails := []string{"alice@example.com", "invalid", "bob@0-mail.com"}

	results, _ := c.ClassifyMany(context.Background(), emails)
	for _, r := range disposable.Disposables(results) {
		fmt.Printf("%s: %s\n", r.Email, r.Details)
	}
	// Output:
	// invalid: invalid email syntax
	// bob@0-mail.com: disposable email domain detected
}

func ExampleNewWithProvider() {
	// One provider, and therefore one cache, shared by several checkers.
	p := domainlist.New(localList, memstore.New(), domainlist.DefaultConfig())
	signup := disposable.NewWithProvider(p)
	newsletter := disposable.NewWithProvider(p)

	a, _ := signup.IsDisposable(context.Background(), "x@0-mail.com")
	b, _ := newsletter.IsDisposable(context.Background(), "x@example.org")
	fmt.Println(a, b)
	// Output: true false
}
