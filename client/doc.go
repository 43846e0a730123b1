// Package client layers HTTP requests onto urlkit URLs.
//
// Session owns the connection pool, retry policy, pacing, and default
// headers. RequestURL binds a URL to a Session so that URL algebra and
// request verbs compose: dividing a RequestURL yields another
// RequestURL sharing the same session.
//
//	api, _ := client.New("https://api.github.com")
//	repos, _ := api.JoinURL("users", "octocat", "repos")
//	resp, err := repos.Get(ctx)
package client
