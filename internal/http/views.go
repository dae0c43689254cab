package http

import (
	"html/template"
	"net/http"
)

var landingTemplate = template.Must(template.New("landing").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Welcome</title>
    <style>body{font-family:Segoe UI, Roboto, Arial, sans-serif; padding:20px}</style>
  </head>
  <body>
    <h1><strong>Welcome</strong></h1>
    <p>This API provides CRUD endpoints for books and authors.</p>
    <ul>
      <li>Authors: <a href="/authors">/authors</a> (GET, POST, PUT, DELETE)</li>
      <li>Books: <a href="/books">/books</a> (GET, POST, PUT, DELETE)</li>
    </ul>
    <p>Login with Google: <a href="/auth/google">/auth/google</a></p>
  </body>
</html>
`))

var loginSuccessTemplate = template.Must(template.New("success").Parse(`<html>
  <head>
    <title>Login Success</title>
    <style>
      body { font-family: Arial, sans-serif; padding: 40px; text-align: center; }
      h2 { color: #28a745; }
      .token-section { margin: 20px 0; padding: 20px; background: #f5f5f5; border-radius: 5px; }
      pre { background: #e8e8e8; padding: 10px; border-radius: 3px; text-align: left; overflow-x: auto; }
      button { padding: 10px 20px; margin: 5px; font-size: 16px; cursor: pointer; border: none; border-radius: 4px; background-color: #007bff; color: white; }
    </style>
  </head>
  <body>
    <h2>Login Successful: {{.Name}}</h2>
    <p>Welcome! You are now logged in.</p>

    <div class="token-section">
      <p><strong>Copy this token and use it in API requests:</strong></p>
      <pre>{{.Token}}</pre>
      <p>In your requests, include the header:</p>
      <pre>Authorization: Bearer {{.Token}}</pre>
    </div>

    <button onclick="location.href='/'">Go to Home</button>
    <button onclick="location.href='/auth/logout'">Logout</button>
  </body>
</html>
`))

var loggedOutTemplate = template.Must(template.New("loggedout").Parse(`<html>
  <head>
    <title>Logged Out</title>
    <style>
      body { font-family: Arial, sans-serif; padding: 40px; text-align: center; }
      h2 { color: #dc3545; }
      button { padding: 10px 20px; margin: 5px; font-size: 16px; cursor: pointer; border: none; border-radius: 4px; background-color: #007bff; color: white; }
    </style>
  </head>
  <body>
    <h2>Logged Out</h2>
    <p>You have been logged out. Your session has been cleared.</p>
    <button onclick="location.href='/'">Go to Home</button>
    <button onclick="location.href='/auth/google'">Login Again</button>
  </body>
</html>
`))

func renderLanding(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = landingTemplate.Execute(w, nil)
}

func renderLoginSuccess(w http.ResponseWriter, name, token string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = loginSuccessTemplate.Execute(w, struct {
		Name  string
		Token string
	}{Name: name, Token: token})
}

func renderLoggedOut(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = loggedOutTemplate.Execute(w, nil)
}
