package server

// hostPageHTML embeds the mapping/drawing library from its CDN and mounts
// the viewer against the zones endpoint. The main surface and the preview
// grid are plain containers; all drawing is the library's job.
const hostPageHTML = `{{define "hostpage"}}<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet-draw@1.0.4/dist/leaflet.draw.css">
<style>
#zones-map { height: {{.Height}}px; }
#zones-previews { display: flex; gap: 8px; margin-top: 8px; }
#zones-previews .preview { width: 160px; height: 120px; }
#zones-status { font: 13px/1.4 sans-serif; color: #444; margin-top: 4px; }
</style>
</head>
<body>
<div id="zones-map"></div>
<div id="zones-previews"></div>
<div id="zones-status">{{.Status}}</div>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet-draw@1.0.4/dist/leaflet.draw.js"></script>
<script>
var config = {{.Config}};
var map = L.map('zones-map').setView([config.center[0], config.center[1]], config.zoom);
L.tileLayer({{.TileURL}}, {
  maxZoom: {{.TileMaxZoom}},
  attribution: {{.Attribution}}
}).addTo(map);
var layer = L.geoJSON(null, {style: function () { return {
  color: config.style.color, weight: config.style.weight,
  fillColor: config.style.fillColor, fillOpacity: config.style.fillOpacity
}; }}).addTo(map);
fetch({{.ZonesURL}}).then(function (r) {
  if (!r.ok) { throw new Error('status ' + r.status); }
  return r.json();
}).then(function (doc) {
  var zones = Array.isArray(doc) ? doc : doc.zones;
  var grid = document.getElementById('zones-previews');
  zones.forEach(function (z, i) {
    layer.addData(z.geojson);
    var el = document.createElement('div');
    el.className = 'preview';
    grid.appendChild(el);
    var preview = L.map(el, {
      zoomControl: false, dragging: false, scrollWheelZoom: false,
      doubleClickZoom: false, boxZoom: false, keyboard: false,
      attributionControl: false
    });
    L.tileLayer(config.tileUrl, {maxZoom: config.tileMaxZoom}).addTo(preview);
    var g = L.geoJSON(z.geojson).addTo(preview);
    var b = g.getBounds();
    if (b.isValid()) {
      preview.fitBounds(b, {padding: [config.fitPadding, config.fitPadding]});
    } else {
      preview.setView([z.center[0], z.center[1]], z.zoom);
    }
  });
  if (config.fitToData && layer.getBounds().isValid()) {
    map.fitBounds(layer.getBounds(), {padding: [config.fitPadding, config.fitPadding]});
  }
}).catch(function (err) {
  document.getElementById('zones-status').textContent = 'Failed to load zones: ' + err.message;
});
</script>
</body>
</html>
{{end}}`
