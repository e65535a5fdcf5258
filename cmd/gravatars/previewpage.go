package main

import (
	"html/template"
)

type previewImage struct {
	Generator string
	URL       string
}

type previewPage struct {
	Email  string
	Size   int
	Images []previewImage
}

var previewHtmlTpl, _ = template.New("_").Parse(`
<!doctype html>

<html>
<head>
	<title>Preview my Gravatars</title>
	<style>
	th {
		text-align: left;
	}

	figure {
		display: inline-block;
		margin: 8px;
	}
	</style>
</head>

<body style="width: 600px; margin: auto; text-align: center;">

<h1>Preview my Gravatars!</h1>

<form action="preview" method="get">
	<fieldset>
		<legend>Enter your details</legend>

		<table>
		<tr>
			<th>Email</th>
			<td><input required type="email" name="email" value="{{.Email}}" placeholder="bob@example.com" /></td>
		</tr>
		<tr>
			<th>Gravatar size</th>
			<td><input required type="number" name="size" value="{{.Size}}" /></td>
		</tr>
		</table>

		<input type="submit" value="Fetch Gravatar(s)" />
	</fieldset>
</form>

{{range .Images}}
<figure>
	<img src="{{.URL}}" alt="{{.Generator}}" />
	<figcaption>{{.Generator}}</figcaption>
</figure>
{{end}}

</body>
</html>
`)
