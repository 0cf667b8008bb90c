// Package export renders a self-contained playable HTML document that
// embeds the current question bank and game configuration as inline
// data. The artifact is a snapshot: it has no link back to the service.
package export

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/eduplay/quizquest/internal/game"
	"github.com/eduplay/quizquest/internal/quiz"
)

type payload struct {
	Title     string          `json:"title"`
	Config    game.Config     `json:"config"`
	Questions []quiz.Question `json:"questions"`
}

// Write renders the artifact for the given bank snapshot. Image or
// audio references inside prompts are expected to already be data URIs;
// nothing is fetched at render or play time.
func Write(w io.Writer, title string, cfg game.Config, questions []quiz.Question) error {
	data, err := json.Marshal(payload{Title: title, Config: cfg, Questions: questions})
	if err != nil {
		return fmt.Errorf("encoding game data: %w", err)
	}
	return artifactTmpl.Execute(w, map[string]any{
		"Title": title,
		"Data":  template.JS(data),
	})
}

var artifactTmpl = template.Must(template.New("artifact").Parse(`<!DOCTYPE html>
<html lang="vi">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  body { font-family: sans-serif; background: #fffbeb; margin: 0; padding: 2rem; }
  .card { max-width: 640px; margin: 0 auto; background: #fff; border-radius: 12px;
          box-shadow: 0 8px 24px rgba(0,0,0,.12); padding: 1.5rem; }
  h1 { color: #92400e; }
  button { display: block; width: 100%; margin: .5rem 0; padding: .75rem 1rem;
           border: 2px solid #e5e7eb; border-radius: 10px; background: #fff;
           text-align: left; font-size: 1rem; cursor: pointer; }
  button:hover { border-color: #f59e0b; }
  button.correct { border-color: #22c55e; background: #f0fdf4; }
  button.wrong { border-color: #ef4444; background: #fef2f2; }
  input[type=text] { width: 100%; box-sizing: border-box; padding: .75rem;
                     border: 2px solid #e5e7eb; border-radius: 10px; font-size: 1rem; }
  .meta { color: #6b7280; font-size: .85rem; }
  .result { font-size: 1.25rem; font-weight: bold; margin-top: 1rem; }
</style>
</head>
<body>
<div class="card">
  <h1>{{.Title}}</h1>
  <div id="game"></div>
</div>
<script>
const DATA = {{.Data}};
let pool = [], idx = 0, score = 0;

function shuffle(a) {
  for (let i = a.length - 1; i > 0; i--) {
    const j = Math.floor(Math.random() * (i + 1));
    [a[i], a[j]] = [a[j], a[i]];
  }
  return a;
}

function start() {
  pool = shuffle(DATA.questions.slice()).slice(0, DATA.config.questionsPerLevel);
  idx = 0; score = 0;
  render();
}

function normalize(s) {
  return s.toLowerCase().trim().replace(/\s+/g, ' ');
}

function answer(correct) {
  if (correct) score++;
  idx++;
  render();
}

function render() {
  const root = document.getElementById('game');
  if (idx >= pool.length) {
    const passed = score > DATA.config.passScore;
    root.innerHTML = '<div class="result">' +
      (passed ? 'Chúc mừng!' : 'Rất tiếc!') +
      '</div><p>' + score + '/' + pool.length + '</p>' +
      '<button onclick="start()">Chơi lại</button>';
    return;
  }
  const q = pool[idx];
  let html = '<div class="meta">Câu ' + (idx + 1) + '/' + pool.length + '</div>' +
    '<p>' + q.prompt + '</p>';
  if (q.kind === 'multiple-choice') {
    q.choices.forEach((c, i) => {
      html += '<button onclick="answer(' + (i === q.correctChoiceIndex) + ')">' + c + '</button>';
    });
  } else if (q.kind === 'drag-drop') {
    html += '<p class="meta">Chọn lần lượt theo đúng thứ tự</p>';
    shuffle(q.choices.slice()).forEach(c => {
      html += '<button onclick="pick(this)">' + c + '</button>';
    });
    html += '<button onclick="checkOrder()">Kiểm tra</button>';
  } else {
    html += '<input type="text" id="ans" placeholder="Câu trả lời...">' +
      '<button id="submit">Trả lời</button>';
  }
  root.innerHTML = html;
  const submit = document.getElementById('submit');
  if (submit) {
    // The answer key may contain quotes, so it cannot sit inside an
    // inline onclick attribute.
    submit.addEventListener('click', function () {
      answer(normalize(document.getElementById('ans').value) === normalize(q.correctText || ''));
    });
  }
}

let order = [];
function pick(btn) {
  order.push(btn.textContent);
  btn.disabled = true;
}
function checkOrder() {
  const q = pool[idx];
  const correct = order.length === q.choices.length &&
    order.every((v, i) => v === q.choices[i]);
  order = [];
  answer(correct);
}

start();
</script>
</body>
</html>
`))
