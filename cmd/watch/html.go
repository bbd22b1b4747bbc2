package watch

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>p4migrate watch</title>
<style>
  body { margin: 0; font-family: sans-serif; }
  #status { padding: 4px 8px; font-size: 12px; color: #555; border-bottom: 1px solid #ddd; }
  #graph { width: 100vw; height: calc(100vh - 25px); overflow: auto; }
</style>
<script src="https://unpkg.com/@viz-js/viz@3.4.0/lib/viz-standalone.js"></script>
</head>
<body>
<div id="status">waiting for graph...</div>
<div id="graph"></div>
<script>
  const status = document.getElementById("status");
  const target = document.getElementById("graph");
  Viz.instance().then(function (viz) {
    const events = new EventSource("/events");
    events.addEventListener("graph", function (e) {
      target.replaceChildren(viz.renderSVGElement(e.data));
      status.textContent = "updated " + new Date().toLocaleTimeString();
    });
    events.onerror = function () {
      status.textContent = "disconnected, retrying...";
    };
  });
</script>
</body>
</html>
`
