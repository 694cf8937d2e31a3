package expert

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const framesetPage = `<html>
<head><title>Class Schedule - Expert</title></head>
<frameset rows="120,*">
	<frame name="select" src="expert_select">
	<frame name="results" src="blank.html">
</frameset>
</html>`

const selectPage = `<html><body>
<form action="/cgi-bin/schedule" method="post" target="results">
	<input type="hidden" name="sess" value="1249">
	<select name="level">
		<option value="grad">Graduate</option>
		<option value="under" selected>Undergraduate</option>
	</select>
	<select name="subject">
		<option value="ACC">ACC - Accounting</option>
		<option value="CO">CO - Combinatorics and Optimization</option>
		<option value="CS">CS - Computer Science</option>
		<option value="CS/SE">CS/SE - Computer Science for Software Engineering</option>
		<option>MATH - Mathematics</option>
	</select>
	<input type="text" name="cournum" value="">
	<input type="submit" value="View Class Schedules">
	<input type="reset" value="Clear">
</form>
</body></html>`

const resultsPage = `<html><body>
<h2>CS 246</h2>
<pre>
Class  Comp Sect Camp Loc  Enrl Cap Enrl Tot Time
5381   LEC 001  UW U    UW   90       85      10:00-11:20TTh  MC 2065
5382   LEC 002  UW U    UW   90       88      1:00-2:20MW     MC 4020
5390   TUT 101  UW U    UW   180      173     8:30-9:20F      MC 1085
</pre>
</body></html>`

// expertServer imitates the frameset, the query form and the results page,
// it records the last submitted form.
type expertServer struct {
	*httptest.Server
	submitted chan map[string]string
}

func newExpertServer(t *testing.T) expertServer {
	t.Helper()

	submitted := make(chan map[string]string, 16)
	mux := http.NewServeMux()
	mux.HandleFunc("/cscf/teaching/schedule/expert", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, framesetPage)
	})
	mux.HandleFunc("/cscf/teaching/schedule/expert_select", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, selectPage)
	})
	mux.HandleFunc("/cscf/teaching/schedule/blank.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body></body></html>")
	})
	mux.HandleFunc("/cgi-bin/schedule", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		err := r.ParseForm()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := map[string]string{}
		for key := range r.PostForm {
			form[key] = r.PostForm.Get(key)
		}
		submitted <- form

		if form["subject"] == "CS" && strings.TrimSpace(form["cournum"]) == "246" {
			fmt.Fprint(w, resultsPage)
			return
		}
		fmt.Fprint(w, "<html><body><p>Sorry, but your query had no matches.</p></body></html>")
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return expertServer{Server: server, submitted: submitted}
}

func (s expertServer) expertURL() string {
	return s.URL + "/cscf/teaching/schedule/expert"
}
